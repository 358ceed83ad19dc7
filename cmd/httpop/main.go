// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/gogama/httpop/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
