package handler

import (
	"net/http"
)

// Cocytus answers every request nothing else claimed.
var Cocytus = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	Detail(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
})
