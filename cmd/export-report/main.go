package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"sort"

	"cardstatx/internal/config"
	"cardstatx/internal/database"
	"cardstatx/internal/services"
	"cardstatx/internal/store"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
)

var output = flag.String("o", "price_report.xlsx", "output workbook path")

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	st := store.New(db)
	aggregator := services.NewAggregator(st)

	cards, err := st.ListCards()
	if err != nil {
		log.Fatalf("Failed to list cards: %v", err)
	}
	if len(cards) == 0 {
		log.Fatal("No cards in database, nothing to export")
	}

	// Stable row order for the workbook
	ids := make([]string, 0, len(cards))
	for id := range cards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return cards[ids[i]] < cards[ids[j]] })

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Card", "ID", "Week Avg", "Week Count", "Month Avg", "Month Count", "Year Avg", "Year Count"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	exported := 0
	for _, id := range ids {
		averages, err := aggregator.AveragesFor(id)
		if err != nil {
			if errors.Is(err, services.ErrCardNotFound) {
				continue
			}
			log.Printf("Skipping %s: %v", id, err)
			continue
		}

		values := []interface{}{
			cards[id], id,
			averages.Week.Average, averages.Week.Count,
			averages.Month.Average, averages.Month.Count,
			averages.Year.Average, averages.Year.Count,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
		exported++
	}

	if err := f.SaveAs(*output); err != nil {
		log.Fatalf("Failed to save workbook: %v", err)
	}
	fmt.Printf("Exported %d cards with listings to %s\n", exported, *output)
}
