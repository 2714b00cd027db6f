package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/suitloom/suitloom-backend/internal/app/repository"
	"github.com/suitloom/suitloom-backend/internal/configurator"
	"github.com/suitloom/suitloom-backend/pkg/logger"
)

type ExportService interface {
	ExportOrdersXLSX() ([]byte, error)
}

type exportService struct {
	orderRepo repository.OrderRepository
}

func NewExportService(orderRepo repository.OrderRepository) ExportService {
	return &exportService{orderRepo: orderRepo}
}

// ExportOrdersXLSX renders every order as one row of an XLSX workbook.
// Selections are flattened into a readable single cell for the tailor.
func (s *exportService) ExportOrdersXLSX() ([]byte, error) {
	orders, err := s.orderRepo.FindAll()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"주문번호", "주문자 ID", "세션 ID", "상태", "선택 내역", "치수", "미리보기", "주문일시"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, order := range orders {
		row := rowIdx + 2
		values := []interface{}{
			order.ID,
			order.UserID,
			order.SessionID,
			string(order.Status),
			formatSelections(order.Selections),
			order.Measurements,
			order.PreviewURL,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to write orders workbook", err, nil)
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Orders exported to XLSX", map[string]interface{}{
		"count": len(orders),
	})
	return buf.Bytes(), nil
}

// formatSelections turns the stored selection JSON into "카테고리(그룹): 제목" lines
func formatSelections(raw string) string {
	var flat []configurator.FlatSelection
	if err := json.Unmarshal([]byte(raw), &flat); err != nil {
		return raw
	}

	var buf bytes.Buffer
	for i, sel := range flat {
		if i > 0 {
			buf.WriteString("\n")
		}
		if sel.Group != nil {
			buf.WriteString(fmt.Sprintf("%s(%s): %s", sel.Category, *sel.Group, sel.Title))
		} else {
			buf.WriteString(fmt.Sprintf("%s: %s", sel.Category, sel.Title))
		}
	}
	return buf.String()
}
