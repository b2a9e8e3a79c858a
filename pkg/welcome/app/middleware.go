/*
Copyright 2026 The Skaffold Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package app

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/instrumentation"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
)

var newRequestID = uuid.NewString

// withRequestLogging tags each request with an ID, logs it at debug level
// and records it in the request metrics. The response is left untouched.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := log.WithEventContext(r.Context(), constants.Serve, newRequestID())

		m := httpsnoop.CaptureMetrics(next, w, r.WithContext(ctx))

		log.Entry(ctx).Debugf("%s %s %s -> %d (%s, %s)", r.RemoteAddr, r.Method, r.URL.RequestURI(), m.Code, humanize.Bytes(uint64(m.Written)), m.Duration)
		instrumentation.RecordRequest(ctx, r.Method, m.Code, m.Duration)
	})
}
