package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
)

// HandleExportOrders handles GET /v1/admin/orders/export. Streams the full
// order book as a spreadsheet for back-office reporting.
func HandleExportOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := repos.Order.List(c.Request.Context(), 10000, 0)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "UserID", "Status", "PaymentMethod", "PaymentStatus",
			"TotalAmount", "Items", "CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			items, err := repos.OrderItem.GetByOrderID(c.Request.Context(), o.ID)
			if err != nil {
				logger.Warn("Failed to load items for export row",
					zap.String("order_id", o.ID.String()),
					zap.Error(err))
			}

			row := sheet.AddRow()
			row.AddCell().SetValue(o.ID.String())
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentMethod))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(len(items))
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(o.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			logger.Error("Failed to write Excel file", zap.Error(err))
		}
	}
}
