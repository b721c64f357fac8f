package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/dealer-admin-backend/config"
	"github.com/ikkim/dealer-admin-backend/internal/app/repository"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
	"github.com/ikkim/dealer-admin-backend/internal/sheet"
)

func main() {
	yes := flag.Bool("y", false, "skip the confirmation prompt")
	flag.Parse()

	// 명령줄 인자 확인
	if flag.NArg() < 1 {
		log.Fatal("Usage: go run cmd/seed/main.go [-y] <xlsx_file_path>")
	}
	filePath := flag.Arg(0)

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if cfg.Storage.Backend == config.BackendMemory {
		log.Fatal("STORAGE_BACKEND is memory; nothing would be kept after this process exits")
	}

	// 저장소 연결
	slots, closeSlots, err := repository.OpenSlots(cfg)
	if err != nil {
		log.Fatal("Failed to open dealer storage:", err)
	}
	defer closeSlots()

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	forms, err := sheet.ReadDealerForms(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total dealer rows to import: %d\n", len(forms))
	if len(forms) == 0 {
		return
	}

	// 사용자 확인
	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	repo := repository.NewDealerRepository(slots, cfg.Storage.SlotKey)
	svc := service.NewDealerService(repo, nil, nil, nil)

	result, err := svc.ImportDealers(context.Background(), forms)
	if err != nil {
		log.Fatal("Failed to import dealers:", err)
	}

	// 거절된 행 출력
	for _, rejected := range result.Rejected {
		fmt.Printf("Row %d skipped: %v\n", rejected.Row, rejected.Fields)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Dealers imported: %d, skipped: %d, total now: %d\n",
		len(result.Created), len(result.Rejected), len(result.Dealers))
}
