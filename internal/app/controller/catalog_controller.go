package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suitloom/suitloom-backend/internal/catalog"
	apperrors "github.com/suitloom/suitloom-backend/internal/errors"
)

type CatalogController struct {
	catalog *catalog.Catalog
}

func NewCatalogController(cat *catalog.Catalog) *CatalogController {
	return &CatalogController{catalog: cat}
}

// GetCatalog returns the full garment catalog: categories in declaration
// order, each with its groups and options.
// GET /api/v1/catalog
func (ctrl *CatalogController) GetCatalog(c *gin.Context) {
	categories := make([]gin.H, 0, len(ctrl.catalog.Categories()))
	for _, category := range ctrl.catalog.Categories() {
		groups := make([]gin.H, 0)
		for _, group := range ctrl.catalog.GroupsOf(category) {
			options := make([]catalog.Option, 0)
			for _, opt := range ctrl.catalog.Options(category) {
				if opt.GroupKey() == group {
					options = append(options, opt)
				}
			}
			groups = append(groups, gin.H{
				"key":     group,
				"options": options,
			})
		}
		categories = append(categories, gin.H{
			"category": category,
			"groups":   groups,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetCategoryOptions returns the options of one category
// GET /api/v1/catalog/:category
func (ctrl *CatalogController) GetCategoryOptions(c *gin.Context) {
	category := catalog.Category(c.Param("category"))
	if !ctrl.catalog.HasCategory(category) {
		apperrors.NotFound(c, apperrors.ConfigInvalidCategory, "존재하지 않는 카테고리입니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"groups":   ctrl.catalog.GroupsOf(category),
		"options":  ctrl.catalog.Options(category),
	})
}
