package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"dambo/config"
	"dambo/handler"
	"dambo/insight"
	"dambo/model"
	"dambo/repository"
	"dambo/router"
	"dambo/service"
	"dambo/service/db"
	"dambo/storage"
)

// initFlags initializes the command line flags
func initFlags() *model.CommandLineFlags {
	appFlags := &model.CommandLineFlags{}
	appFlags.Host = flag.String("host", "", "API host. Overrides the config file.")
	appFlags.Port = flag.String("port", "", "API port. Overrides the config file.")
	appFlags.Config = flag.String("config", "", "Configuration file path. Optional.")
	flag.Parse()
	return appFlags
}

var appFlags *model.CommandLineFlags

func main() {
	appFlags = initFlags()
	config.InitConfig(*appFlags.Config)
	if *appFlags.Host != "" {
		config.Config.HTTP.Host = *appFlags.Host
	}
	if *appFlags.Port != "" {
		config.Config.HTTP.Port = *appFlags.Port
	}

	dbConn, err := db.ConnectDuckDB(config.Config.DBPath)
	if err != nil {
		log.Fatalf("failed to connect to DuckDB: %v", err)
	}
	defer dbConn.Close()
	if err := repository.CreateTables(dbConn); err != nil {
		log.Fatalf("failed to create metadata tables: %v", err)
	}

	store, err := storage.New()
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	var advisor insight.Advisor
	if config.Config.AI.APIKey != "" {
		advisor = insight.NewGeminiAdvisor(config.Config.AI.APIKey, config.Config.AI.Model)
	}

	h := &handler.Handler{
		DB:      dbConn,
		Store:   store,
		Source:  &service.DatasetSource{DB: dbConn, Store: store},
		Advisor: advisor,
	}
	h.Register()

	r := router.NewRouter(appFlags)
	fmt.Printf("Dambo API Running: %s:%s\n", config.Config.HTTP.Host, config.Config.HTTP.Port)
	if err := http.ListenAndServe(config.Config.HTTP.Host+":"+config.Config.HTTP.Port, r); err != nil {
		panic(err)
	}
}
