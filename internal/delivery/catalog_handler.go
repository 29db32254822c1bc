package delivery

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"admin_console/internal/domain"
	"admin_console/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxUploadMemory = 32 << 20

type CatalogHandler struct {
	session *usecase.CatalogSession
	log     *logrus.Logger
}

func NewCatalogHandler(session *usecase.CatalogSession, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		session: session,
		log:     logger,
	}
}

func (h *CatalogHandler) RegisterRoutes(router gin.IRouter) {
	catalog := router.Group("/catalog")
	{
		catalog.GET("/products", h.ListProducts)
		catalog.POST("/products/reload", h.ReloadProducts)
		catalog.DELETE("/products/:id", h.DeleteProduct)

		catalog.GET("/options", h.FormOptions)

		catalog.GET("/draft", h.GetDraft)
		catalog.POST("/draft", h.StartCreate)
		catalog.DELETE("/draft", h.CancelDraft)
		catalog.POST("/draft/edit/:id", h.StartEdit)
		catalog.PUT("/draft/pricing", h.SetPricing)
		catalog.POST("/draft/assets", h.UploadAssets)
		catalog.DELETE("/draft/assets", h.RemoveAsset)
		catalog.POST("/draft/submit", h.SubmitDraft)
	}
}

// ListProducts applies any cursor parameters present in the query, then returns the visible page.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	category, hasCategory := c.GetQuery("category")
	search, hasSearch := c.GetQuery("q")
	if hasCategory || hasSearch {
		filter := h.session.Query().Filter
		if hasCategory {
			filter.Category = domain.Category(category)
		}
		if hasSearch {
			filter.Search = search
		}
		h.session.SetFilter(filter)
	}

	if field, ok := c.GetQuery("sort"); ok {
		spec := usecase.SortSpec{
			Field:      usecase.SortField(field),
			Descending: strings.EqualFold(c.Query("order"), "desc"),
		}
		if err := h.session.SetSort(spec); err != nil {
			h.log.Warnf("Invalid sort parameter: %s", field)
			failWith(c, "Invalid sort", err)
			return
		}
	}

	if pageStr, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page <= 0 {
			h.log.Warnf("Invalid page parameter: %s", pageStr)
			ErrorResponse(c, http.StatusBadRequest, "Invalid page number")
			return
		}
		h.session.SetPage(page)
	}

	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", h.session.View())
}

func (h *CatalogHandler) ReloadProducts(c *gin.Context) {
	if err := h.session.Reload(c.Request.Context()); err != nil {
		failWith(c, "Failed to fetch products", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products reloaded successfully", h.session.View())
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	confirm, _ := strconv.ParseBool(c.Query("confirm"))

	deleted, err := h.session.Remove(c.Request.Context(), id, domain.Answer(confirm))
	if err != nil {
		failWith(c, "Failed to delete product", err)
		return
	}
	if !deleted {
		SuccessResponse(c, http.StatusOK, "Delete cancelled", gin.H{"deleted": false})
		return
	}
	h.log.Infof("Product %s deleted via console", id)
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", gin.H{"deleted": true})
}

// FormOptions lists the fixed choices offered by the product form.
func (h *CatalogHandler) FormOptions(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Form options", gin.H{
		"categories":    []domain.Category{domain.CategoryWomen},
		"subCategories": []domain.SubCategory{domain.SubCategorySalwarMaterials, domain.SubCategoryReadyToWear},
		"sizes":         domain.Sizes,
		"fabrics":       domain.Fabrics,
	})
}

func (h *CatalogHandler) GetDraft(c *gin.Context) {
	draft := h.session.Draft()
	if draft == nil {
		failWith(c, "", domain.ErrNoDraft)
		return
	}
	SuccessResponse(c, http.StatusOK, "Draft retrieved successfully", gin.H{
		"state": h.session.State(),
		"draft": draft,
	})
}

func (h *CatalogHandler) StartCreate(c *gin.Context) {
	draft, err := h.session.StartCreate()
	if err != nil {
		failWith(c, "Cannot start a new product", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Draft created successfully", draft)
}

func (h *CatalogHandler) StartEdit(c *gin.Context) {
	draft, err := h.session.StartEdit(c.Param("id"))
	if err != nil {
		failWith(c, "Cannot edit product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Draft opened for editing", draft)
}

func (h *CatalogHandler) SetPricing(c *gin.Context) {
	var req struct {
		Price         *float64 `json:"price"`
		OriginalPrice *float64 `json:"originalPrice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for pricing: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	discount, err := h.session.SetPricing(req.Price, req.OriginalPrice)
	if err != nil {
		failWith(c, "Cannot update pricing", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Pricing updated", gin.H{"discountPercentage": discount})
}

func (h *CatalogHandler) UploadAssets(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	files := form.File["image"]
	if len(files) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "No image provided")
		return
	}

	assets := make([]domain.Asset, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("Cannot read %s: %v", fh.Filename, err))
			return
		}
		defer f.Close()
		assets = append(assets, domain.Asset{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	urls, err := h.session.AddAssets(c.Request.Context(), assets)
	if err != nil {
		h.log.Warnf("Uploaded %d of %d images: %v", len(urls), len(assets), err)
		_ = c.Error(err)
		if urls == nil {
			urls = []string{}
		}
		c.JSON(mapErrorToStatus(err), Response{
			Status:  "Fail",
			Message: fmt.Sprintf("Upload failed: %s (%d of %d images added)", domain.UserMessage(err), len(urls), len(assets)),
			Data:    gin.H{"urls": urls},
		})
		return
	}
	SuccessResponse(c, http.StatusCreated, "Images uploaded successfully", gin.H{"urls": urls})
}

func (h *CatalogHandler) RemoveAsset(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		ErrorResponse(c, http.StatusBadRequest, "Query parameter 'url' is required")
		return
	}
	if err := h.session.RemoveAsset(url); err != nil {
		failWith(c, "Cannot remove image", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Image removed", h.session.Draft())
}

func (h *CatalogHandler) SubmitDraft(c *gin.Context) {
	var form domain.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.log.Warnf("Failed to bind JSON for product form: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	saved, err := h.session.Submit(c.Request.Context(), form)
	if err != nil {
		failWith(c, "Failed to save product", err)
		return
	}
	h.log.Infof("Product %s saved via console", saved.ProductID)
	SuccessResponse(c, http.StatusOK, "Product saved successfully", saved)
}

func (h *CatalogHandler) CancelDraft(c *gin.Context) {
	if err := h.session.Cancel(c.Request.Context()); err != nil {
		failWith(c, "Cannot cancel draft", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Draft discarded", nil)
}
