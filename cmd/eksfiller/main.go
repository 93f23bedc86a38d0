package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"eksfiller/internal/config"
	"eksfiller/internal/server"
	"eksfiller/internal/util"
)

var (
	port    = flag.Int("port", 0, "Serverport (config.toml hat Vorrang; wirkt nur, wenn dort kein port gesetzt ist)")
	devMode = flag.Bool("dev", false, "Entwicklungsmodus")
	dataDir = flag.String("dataDir", "", "Datenverzeichnis (überschreibt die Konfigurationsdatei)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  EKS-Filler - BWA-Auswertung für die EKS")
	fmt.Println("==========================================")

	// Konfiguration laden
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("Konfiguration konnte nicht geladen werden, verwende Standardwerte: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// Kommandozeilenparameter überschreiben die Konfiguration
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	// Datenverzeichnis sicherstellen
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("Datenverzeichnis konnte nicht angelegt werden: %v", err)
	} else {
		fmt.Printf("Datenverzeichnis: %s\n", dataDir)
	}

	// Server erstellen
	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// Server starten
	go func() {
		fmt.Printf("Dienst startet, Port %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("Dienst konnte nicht gestartet werden: %v", err)
		}
	}()

	// Browser öffnen
	if !cfg.Server.DevMode {
		fmt.Printf("Browser wird geöffnet: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Browser konnte nicht geöffnet werden, bitte manuell aufrufen: %s\n", url)
		}
	} else {
		fmt.Printf("Entwicklungsmodus: bitte %s aufrufen\n", url)
	}

	fmt.Println("\nMit Strg+C beenden...")

	// Auf Signal warten
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nDienst wird beendet...")
	if err := srv.Close(); err != nil {
		log.Printf("Datenbank konnte nicht sauber geschlossen werden: %v", err)
	}
}
