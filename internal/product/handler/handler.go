// Package handler provides HTTP handlers for product-related operations.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/abgdnv/productsctl/internal/platform/contextkeys"
	producterrors "github.com/abgdnv/productsctl/internal/product/errors"
	"github.com/abgdnv/productsctl/internal/product/model"
	"github.com/abgdnv/productsctl/internal/product/service"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ProductAPI defines HTTP handlers for product-related endpoints.
type ProductAPI interface {
	FindByID(w http.ResponseWriter, r *http.Request)
	FindAll(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	DeleteByID(w http.ResponseWriter, r *http.Request)

	HealthCheck(w http.ResponseWriter, r *http.Request)
}

type api struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAPI creates a new instance of ProductAPI with the provided service.
func NewAPI(service service.ProductService, logger *slog.Logger) ProductAPI {
	return &api{
		service:  service,
		validate: NewValidator(),
		logger:   logger.With("component", "api"),
	}
}

// NewValidator returns a validator that reports JSON field names and knows the notblank rule.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// createRequest uses pointers so that a missing field is told apart from a zero value.
type createRequest struct {
	Name  *string  `json:"name" validate:"required,notblank"`
	Price *float64 `json:"price" validate:"required,gt=0"`
	Stock *int64   `json:"stock" validate:"required,gte=0"`
}

// validationIssue is one entry of a 422 "detail" list.
type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// FindByID retrieves a product by its ID.
func (a *api) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	id, ok := parseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := a.service.FindByID(r.Context(), id)
	if err != nil {
		a.respondServiceError(w, r, mLogger, id, "Error retrieving product", err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	respondJSON(w, mLogger, http.StatusOK, found)
}

// FindAll retrieves a list of all products.
func (a *api) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := a.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		respondDetail(w, mLogger, http.StatusInternalServerError, "Internal server error")
		return
	}
	if list == nil {
		list = []model.Product{}
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	respondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (a *api) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	var req createRequest
	if !a.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	input := model.ProductCreate{Name: *req.Name, Price: *req.Price, Stock: *req.Stock}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", input)

	newProduct, err := a.service.Create(r.Context(), input)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		respondDetail(w, mLogger, http.StatusInternalServerError, "Internal server error")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	respondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// Update applies a partial update to a product.
func (a *api) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	id, ok := parseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var patch model.ProductUpdate
	if !a.decodeAndValidate(w, r, mLogger, &patch) {
		return
	}

	updated, err := a.service.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, producterrors.ErrNoFieldsToUpdate) {
			mLogger.WarnContext(r.Context(), "Empty update rejected", "ID", id)
			respondDetail(w, mLogger, http.StatusBadRequest, "No valid fields provided for update.")
			return
		}
		a.respondServiceError(w, r, mLogger, id, "Error updating product", err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	respondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (a *api) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	id, ok := parseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := a.service.DeleteByID(r.Context(), id); err != nil {
		a.respondServiceError(w, r, mLogger, id, "Error deleting product", err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	respondJSON(w, mLogger, http.StatusOK, model.DeleteResult{Message: "Product deleted"})
}

// HealthCheck is a simple health check endpoint.
func (a *api) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondServiceError maps not-found to 404 and everything else to 500.
func (a *api) respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, id int64, msg string, err error) {
	if errors.Is(err, producterrors.ErrProductNotFound) {
		logger.WarnContext(r.Context(), "Product not found", "ID", id)
		respondDetail(w, logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	logger.ErrorContext(r.Context(), msg, "ID", id, "error", err)
	respondDetail(w, logger, http.StatusInternalServerError, "Internal server error")
}

// decodeAndValidate decodes the JSON body into dst and validates it, answering 422 on failure.
func (a *api) decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		respondJSON(w, logger, http.StatusUnprocessableEntity, map[string]any{
			"detail": []validationIssue{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}},
		})
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			issues := make([]validationIssue, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				issues = append(issues, toIssue(fieldErr))
			}
			logger.WarnContext(r.Context(), "Validation errors occurred", "errors", issues)
			respondJSON(w, logger, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
			return false
		}
		logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		respondDetail(w, logger, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}

// toIssue renders a validator error the way the products API reports it.
func toIssue(fieldErr validator.FieldError) validationIssue {
	issue := validationIssue{Loc: []string{"body", fieldErr.Field()}}
	switch fieldErr.Tag() {
	case "required":
		issue.Msg, issue.Type = "Field required", "missing"
	case "notblank":
		issue.Msg, issue.Type = "String should have at least 1 character", "string_too_short"
	case "gt":
		issue.Msg, issue.Type = "Input should be greater than "+fieldErr.Param(), "greater_than"
	case "gte":
		issue.Msg, issue.Type = "Input should be greater than or equal to "+fieldErr.Param(), "greater_than_equal"
	default:
		issue.Msg, issue.Type = "failed on rule: "+fieldErr.Tag(), fieldErr.Tag()
	}
	return issue
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondDetail(w http.ResponseWriter, logger *slog.Logger, status int, detail string) {
	respondJSON(w, logger, status, map[string]string{"detail": detail})
}

// parseID extracts and validates the product ID from the request path. Returns the ID and a boolean indicating success.
func parseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	pathValueID := r.PathValue("id")
	id, err := strconv.ParseInt(pathValueID, 10, 64)
	if err != nil {
		respondJSON(w, logger, http.StatusUnprocessableEntity, map[string]any{
			"detail": []validationIssue{{
				Loc:  []string{"path", "product_id"},
				Msg:  "Input should be a valid integer, unable to parse string as an integer",
				Type: "int_parsing",
			}},
		})
		return 0, false
	}
	return id, true
}

// loggerWithReqID creates a logger with the request ID from the context.
func loggerWithReqID(r *http.Request, a *api) *slog.Logger {
	reqID, found := contextkeys.GetRequestID(r.Context())
	if !found {
		reqID = "unknown"
	}
	return a.logger.With("request_id", reqID)
}
