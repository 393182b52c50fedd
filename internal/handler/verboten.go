package handler

import (
	"net/http"
)

var Verboten = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	Detail(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
})
