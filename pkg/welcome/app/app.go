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
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/instrumentation"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
)

// allowedMethods are the methods answered on the root route.
var allowedMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}

// App owns the router serving the root route.
type App struct {
	router *mux.Router
}

// New creates an App.
//
// The root route answers GET and HEAD with the greeting and OPTIONS with the
// allowed methods. Other methods receive 405 Method Not Allowed.
func New() *App {
	r := mux.NewRouter()

	r.HandleFunc("/", Home).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/", Options).Methods(http.MethodOptions)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	return &App{router: r}
}

// Handler returns the http.Handler to serve, including request logging,
// metrics and tracing around the router.
func (a *App) Handler() http.Handler {
	return instrumentation.TraceHandler(withRequestLogging(a.router), constants.AppName)
}

// Home writes the greeting.
func Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", constants.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, constants.Greeting); err != nil {
		log.Entry(r.Context()).Debugf("writing greeting: %v", err)
	}
}

// Options lists the methods of the root route with an empty body.
func Options(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	w.Header().Set("Content-Type", constants.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	w.WriteHeader(http.StatusMethodNotAllowed)
}
