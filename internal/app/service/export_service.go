package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ordersSheet      = "Orders"
	orderItemsSheet  = "Items"
	ExportKeyFolder  = "exports/orders"
	exportTimeLayout = "2006-01-02 15:04:05"
)

var ErrArchiveDisabled = errors.New("export archive storage is not configured")

// ObjectStorage is the subset of S3 the export archive needs.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type ExportArchive struct {
	Key         string    `json:"key"`
	FileURL     string    `json:"file_url"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	OrderCount  int       `json:"order_count"`
}

type ExportService interface {
	// ExportOrders renders the session's order history as an xlsx workbook.
	ExportOrders(ctx context.Context, sessionID string) ([]byte, error)
	// ArchiveOrders uploads the workbook and returns a presigned download link.
	ArchiveOrders(ctx context.Context, sessionID string) (*ExportArchive, error)
}

type exportService struct {
	orders        OrderService
	storage       ObjectStorage
	presignExpiry time.Duration
	keyFunc       func() string
}

// NewExportService builds the exporter. storage may be nil, in which case
// ArchiveOrders returns ErrArchiveDisabled. keyFunc names each archived object.
func NewExportService(orders OrderService, storage ObjectStorage, presignExpiry time.Duration, keyFunc func() string) ExportService {
	return &exportService{
		orders:        orders,
		storage:       storage,
		presignExpiry: presignExpiry,
		keyFunc:       keyFunc,
	}
}

func (s *exportService) ExportOrders(ctx context.Context, sessionID string) ([]byte, error) {
	orders, err := s.orders.ListOrders(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	buf, err := WriteOrdersWorkbook(orders)
	if err != nil {
		logger.Error("Failed to render order export", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	logger.Info("Order history exported", map[string]interface{}{
		"session_id":  sessionID,
		"order_count": len(orders),
		"bytes":       buf.Len(),
	})
	return buf.Bytes(), nil
}

func (s *exportService) ArchiveOrders(ctx context.Context, sessionID string) (*ExportArchive, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}

	orders, err := s.orders.ListOrders(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	buf, err := WriteOrdersWorkbook(orders)
	if err != nil {
		return nil, err
	}

	key := s.keyFunc()
	fileURL, err := s.storage.Upload(ctx, key, XLSXContentType, bytes.NewReader(buf.Bytes()))
	if err != nil {
		logger.Error("Failed to upload order export", err, map[string]interface{}{
			"session_id": sessionID,
			"key":        key,
		})
		return nil, err
	}

	downloadURL, err := s.storage.PresignGet(ctx, key, s.presignExpiry)
	if err != nil {
		return nil, err
	}

	logger.Info("Order history archived", map[string]interface{}{
		"session_id":  sessionID,
		"key":         key,
		"order_count": len(orders),
	})
	return &ExportArchive{
		Key:         key,
		FileURL:     fileURL,
		DownloadURL: downloadURL,
		ExpiresAt:   time.Now().Add(s.presignExpiry),
		OrderCount:  len(orders),
	}, nil
}

// WriteOrdersWorkbook writes one row per order on the Orders sheet and one row
// per line item on the Items sheet.
func WriteOrdersWorkbook(orders []checkout.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ordersSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(orderItemsSheet); err != nil {
		return nil, err
	}

	orderHeader := []interface{}{"Order ID", "Placed At", "Items", "Coupon", "Discount", "Total"}
	if err := f.SetSheetRow(ordersSheet, "A1", &orderHeader); err != nil {
		return nil, err
	}
	itemHeader := []interface{}{"Order ID", "Product ID", "Name", "Size", "Unit Price", "Quantity", "Line Total"}
	if err := f.SetSheetRow(orderItemsSheet, "A1", &itemHeader); err != nil {
		return nil, err
	}

	itemRow := 2
	for idx, o := range orders {
		row := []interface{}{
			o.ID,
			o.CreatedAt.Format(exportTimeLayout),
			o.ItemCount(),
			o.CouponCode,
			o.Discount.Round(2).InexactFloat64(),
			o.Total.Round(2).InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return nil, err
		}

		for _, item := range o.Items {
			line := []interface{}{
				o.ID,
				item.ID,
				item.Name,
				item.Variant,
				item.UnitPrice.Round(2).InexactFloat64(),
				item.Quantity,
				item.LineTotal().Round(2).InexactFloat64(),
			}
			cell, err := excelize.CoordinatesToCellName(1, itemRow)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(orderItemsSheet, cell, &line); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
