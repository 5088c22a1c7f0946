package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"kitchenops/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService produces downloadable spreadsheets from stored aggregates.
type ReportService interface {
	// ConsumptionXLSX renders the trailing weeks of consumption for one
	// location as an XLSX workbook, one row per (week, station, product).
	ConsumptionXLSX(ctx context.Context, locationID uuid.UUID, weeks int) (*bytes.Buffer, string, error)
}

type reportService struct {
	consumptionRepo repository.ConsumptionRepository
	locationRepo    repository.LocationRepository
	now             func() time.Time
}

func NewReportService(consumptionRepo repository.ConsumptionRepository, locationRepo repository.LocationRepository) ReportService {
	return &reportService{
		consumptionRepo: consumptionRepo,
		locationRepo:    locationRepo,
		now:             time.Now,
	}
}

func (s *reportService) ConsumptionXLSX(ctx context.Context, locationID uuid.UUID, weeks int) (*bytes.Buffer, string, error) {
	loc, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrLocationNotFound
		}
		return nil, "", err
	}
	stationIDs, err := s.locationRepo.StationIDs(ctx, locationID)
	if err != nil {
		return nil, "", err
	}
	if weeks <= 0 {
		weeks = 4
	}
	since := truncateToDay(s.now()).AddDate(0, 0, -7*weeks)
	rows, err := s.consumptionRepo.ListByLocation(ctx, stationIDs, since)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Consumption"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})

	headers := []string{"Week Start", "Week End", "Station", "Product", "Unit", "Consumption"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "F1", headerStyle)
	f.SetColWidth(sheet, "A", "B", 12)
	f.SetColWidth(sheet, "C", "D", 24)

	for i, row := range rows {
		r := i + 2
		station := row.StationID.String()
		if row.Station != nil {
			station = row.Station.Name
		}
		product, unit := row.ProductID.String(), ""
		if row.Product != nil {
			product = row.Product.Name
			unit = row.Product.UnitOfMeasure
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.WeekStart.Format(dateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.WeekEnd.Format(dateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), station)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), product)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), unit)
		// stored as text so the decimal survives untouched
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), row.Consumption.String())
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("consumption_%s_%s.xlsx", sanitizeFilename(loc.Name), s.now().Format(dateLayout))
	return buf, filename, nil
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "location"
	}
	return string(out)
}
