package main

import (
	"os"

	"innerbloom-backend/internal/ai"
	"innerbloom-backend/internal/common"
	"innerbloom-backend/internal/db"
	"innerbloom-backend/internal/logger"
	"innerbloom-backend/internal/logic"
	"innerbloom-backend/internal/store"
)

func main() {
	common.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db.InitDB()

	scoped := store.NewScoped(store.NewDBBackend(db.GetDB()), log)
	users := logic.NewDBRegistry(db.NewRegistry(db.GetDB()))
	provider := logic.NewAIProvider(ai.NewClient(log))

	app := logic.NewApp(scoped, users, provider, log)
	app.WebhookURL = common.ReminderWebhookURL()

	app.Ritual.Start()
	logic.StartScheduler(app)

	router := logic.SetupRouter(app)
	if err := router.Run(common.Addr()); err != nil {
		log.Fatal("http server exited", "err", err)
	}
}
