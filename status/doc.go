// Copyright 2021 The httpop Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package status classifies HTTP response status codes into the handling
paths followed by an httpop.Operation.

Classification is a pure function of the status code:

	200-399   Processable   (redirects included)
	400-499   ClientError
	500-599   ServiceError
	otherwise Ignored

Redirect-range codes are processable because the operation classifies
the final response produced by its transport, and the default transport
(net/http) follows redirects before producing that response. A transport
configured not to follow redirects will therefore hand a 3XX response to
the operation's header and body hooks.
*/
package status
