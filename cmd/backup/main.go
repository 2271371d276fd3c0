package main

import (
	"flag"
	"log"
	"os"

	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/repository"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/service"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/internal/store"
	"github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/database"
	applogger "github.com/pokokndesen-source/TASKFORCE-JIMBARAN-05-SPPG/pkg/logger"

	"github.com/joho/godotenv"
)

// Offline backup utility: export or import the full dataset without the
// server running. Shares the store file with cmd/api via SPPG_DB_PATH.
func main() {
	exportPath := flag.String("export", "", "write the backup document to this file")
	importPath := flag.String("import", "", "replace local tables from this backup file")
	flag.Parse()

	if (*exportPath == "") == (*importPath == "") {
		log.Fatal("❌ Pilih salah satu: -export <file> atau -import <file>")
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	zlog, err := applogger.New()
	if err != nil {
		log.Fatalf("❌ Logger init: %v", err)
	}
	defer zlog.Sync()

	// 2. Setup store
	db := database.ConnectDB()
	kv := store.New(db, zlog)
	if err := kv.Migrate(); err != nil {
		log.Fatalf("❌ Migrasi store gagal: %v", err)
	}

	// Cloud pusher nil: backup runs fully offline.
	repo := repository.New(kv, nil, zlog)
	svc := service.NewBackupService(kv, repo, zlog)

	// 3. Run the chosen direction
	if *exportPath != "" {
		doc, err := svc.ExportAll()
		if err != nil {
			log.Fatalf("❌ Export gagal: %v", err)
		}
		if err := os.WriteFile(*exportPath, doc, 0o644); err != nil {
			log.Fatalf("❌ Gagal menulis file: %v", err)
		}
		log.Printf("✅ Backup ditulis ke %s (%d bytes)", *exportPath, len(doc))
		return
	}

	data, err := os.ReadFile(*importPath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file: %v", err)
	}
	if err := svc.ImportAll(data); err != nil {
		log.Fatalf("❌ Import gagal: %v", err)
	}
	log.Printf("✅ Data diimpor dari %s", *importPath)
}
