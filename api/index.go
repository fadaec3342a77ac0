package handler

import (
	"kumbam/config"
	"kumbam/di"
	"kumbam/shared/logger"
	"net/http"
	"sync"

	kumbamHTTP "kumbam/transport/http"
)

var (
	app  *kumbamHTTP.HTTP
	once sync.Once
)

// Handler is the serverless entrypoint; the HTTP stack is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.Setup(config.Get())

		app = di.InitializeService()
	})

	app.ServeHTTP(w, r)
}
