// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/ggowrisankar/weight-tracker/internal/utils"
)

// notFound answers unknown routes, and known routes called with an
// unregistered method, with a JSON 404. Reporting 404 instead of chi's 405
// keeps the route table from being probed by method.
func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
