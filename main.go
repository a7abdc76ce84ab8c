package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jackle3/moderation-api/api/handlers"
	"github.com/jackle3/moderation-api/api/scheduler"

	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize database, engine and router
		log.Fatal(err)
	}

	sched := scheduler.NewScheduler(a.Engine, a.Config.Retention)
	sched.Start()
	defer sched.Stop()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("moderation-api is up and running",
		"port", port,
		"url", baseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
