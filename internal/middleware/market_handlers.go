package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/models"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/repository"
	"github.com/AgusMolinaCode/CryptoMovers_Api.git/internal/services"
	"github.com/gin-gonic/gin"
)

var (
	marketUpdater *services.MarketUpdater
	runRepo       *repository.RunRepository
	workbookRepo  *repository.WorkbookRepository
	summaryCache  *repository.SummaryCache
)

// Alias cortos aceptados en /workbook/:sheet
var sheetAliases = map[string]string{
	"whole": models.SheetWholeData,
	"high":  models.SheetHighTop,
	"low":   models.SheetLowTop,
}

// InitMarket inyecta las dependencias de los handlers de mercado. cache puede ser nil.
func InitMarket(updater *services.MarketUpdater, runs *repository.RunRepository, workbook *repository.WorkbookRepository, cache *repository.SummaryCache) {
	marketUpdater = updater
	runRepo = runs
	workbookRepo = workbook
	summaryCache = cache
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetMovers devuelve los ganadores y perdedores de la última corrida exitosa
func GetMovers(c *gin.Context) {
	if result, err := summaryCache.Latest(c.Request.Context()); err == nil {
		c.JSON(http.StatusOK, gin.H{"source": "cache", "result": result})
		return
	}

	result, ok := marketUpdater.LastResult()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todavía no hay corridas completadas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"source": "memory", "result": result})
}

// GetRuns lista el registro de corridas
func GetRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit debe ser un entero positivo"})
		return
	}
	if limit > 200 {
		limit = 200
	}

	runs, err := runRepo.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener las corridas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// TriggerRun ejecuta una corrida en el momento
func TriggerRun(c *gin.Context) {
	result, err := marketUpdater.RunOnce(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRunInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "Ya hay una corrida en curso"})
		case errors.Is(err, services.ErrFetchFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Data saved successfully!", "result": result})
}

// GetWorkbookSheet devuelve las filas de una de las tres hojas
func GetWorkbookSheet(c *gin.Context) {
	sheet := c.Param("sheet")
	if alias, ok := sheetAliases[strings.ToLower(sheet)]; ok {
		sheet = alias
	}
	if !models.IsWorkbookSheet(sheet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Hoja desconocida: %s", sheet)})
		return
	}

	table, err := workbookRepo.ReadSheet(sheet)
	if err != nil {
		if errors.Is(err, repository.ErrWorkbookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todavía no existe el libro"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sheet":   sheet,
		"columns": table.Columns,
		"count":   len(table.Rows),
		"rows":    table.RowMaps(),
	})
}

// DownloadWorkbook envía el archivo xlsx
func DownloadWorkbook(c *gin.Context) {
	path := workbookRepo.Path()
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Todavía no existe el libro"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
