package main

import "net/http"

func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	app.renderJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
