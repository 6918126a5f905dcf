package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/tharun06x/team-chanchal/internal/model"
	"github.com/tharun06x/team-chanchal/internal/repository"
	"github.com/tharun06x/team-chanchal/internal/service"
	"github.com/tharun06x/team-chanchal/internal/storage"
)

const maxListingImages = 5

type ListingHandler struct {
	svc      service.ListingService
	uploader storage.Uploader
}

func NewListingHandler(svc service.ListingService, uploader storage.Uploader) *ListingHandler {
	return &ListingHandler{svc: svc, uploader: uploader}
}

type ListingResponse struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       uint     `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Status      string   `json:"status"`
	SellerID    string   `json:"sellerId"`
	SellerName  string   `json:"sellerName"`
	SellerPhoto *string  `json:"sellerPhoto,omitempty"`
	Images      []string `json:"images"`
	CreatedAt   string   `json:"createdAt"`
}

func toListingResponse(listing *model.Listing) ListingResponse {
	return ListingResponse{
		ID:          listing.ID,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Category:    string(listing.Category),
		Condition:   string(listing.Condition),
		Status:      string(listing.Status),
		SellerID:    listing.SellerUID,
		SellerName:  listing.SellerName,
		SellerPhoto: listing.SellerPhoto,
		Images:      listing.ImageURLs(),
		CreatedAt:   listing.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles the multipart listing form: text fields plus up to five
// image files, which are uploaded to blob storage before the row is
// written.
func (h *ListingHandler) Create(c echo.Context) error {
	title := c.FormValue("title")
	description := c.FormValue("description")
	priceRaw := c.FormValue("price")
	category := c.FormValue("category")
	condition := c.FormValue("condition")
	sellerID := c.FormValue("sellerId")
	sellerName := c.FormValue("sellerName")
	sellerPhoto := c.FormValue("sellerPhoto")

	if uid, _ := c.Get("uid").(string); uid != "" && uid != sellerID {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "sellerId does not match authenticated user"))
	}

	price, err := strconv.ParseUint(priceRaw, 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid price"))
	}

	var imageURLs []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["images"]
		if len(files) > maxListingImages {
			files = files[:maxListingImages]
		}
		if len(files) > 0 && h.uploader == nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "image uploads are not configured"))
		}
		for _, fh := range files {
			src, err := fh.Open()
			if err != nil {
				return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unreadable image"))
			}
			objectPath := fmt.Sprintf("listings/%s/%s", uuid.NewString(), fh.Filename)
			url, upErr := h.uploader.Upload(c.Request().Context(), objectPath, fh.Header.Get("Content-Type"), src)
			src.Close()
			if upErr != nil {
				log.WithError(upErr).Error("image upload failed")
				return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to upload image"))
			}
			imageURLs = append(imageURLs, url)
		}
	}

	listing, err := h.svc.Create(c.Request().Context(), service.CreateListingInput{
		Title:       title,
		Description: description,
		Price:       uint(price),
		Category:    model.Category(category),
		Condition:   model.Condition(condition),
		SellerUID:   sellerID,
		SellerName:  sellerName,
		SellerPhoto: strPtrOrNil(sellerPhoto),
		ImageURLs:   imageURLs,
	})
	if err != nil {
		if service.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		log.WithError(err).Error("failed to create listing")
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to create listing"))
	}
	return c.JSON(http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	listing, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		log.WithError(err).WithField("listing_id", id).Error("failed to fetch listing")
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listing"))
	}
	return c.JSON(http.StatusOK, toListingResponse(listing))
}

// List returns active listings. A storage failure degrades to an empty
// list with a logged warning rather than an error response.
func (h *ListingHandler) List(c echo.Context) error {
	category := model.Category(c.QueryParam("category"))
	sort := repository.ListingSort(c.QueryParam("sort"))

	listings, err := h.svc.List(c.Request().Context(), category, sort)
	if err != nil {
		if service.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
		log.WithError(err).Warn("failed to fetch listings, returning empty result")
		return c.JSON(http.StatusOK, []ListingResponse{})
	}
	resp := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		resp = append(resp, toListingResponse(&listings[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	uid, _ := c.Get("uid").(string)
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "only the seller can delete a listing"))
		}
		log.WithError(err).WithField("listing_id", id).Error("failed to delete listing")
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete listing"))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Deleted successfully"})
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
