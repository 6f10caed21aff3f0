package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// multipartMemory is how much of a form is held in memory before
// spilling to temp files.
const multipartMemory = 2 << 20

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// readForm parses a multipart product form. The photo is optional.
func readForm(c *appctx.Context) (services.ProductInput, error) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, bind.MaxBodyBytes())
	if err := c.R.ParseMultipartForm(multipartMemory); err != nil {
		return services.ProductInput{}, err
	}
	defer c.R.MultipartForm.RemoveAll() //nolint:errcheck

	f := c.R.MultipartForm.Value
	first := func(key string) string {
		if v := f[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	in := services.ProductInput{
		Name:        first("name"),
		Description: first("description"),
		Price:       first("price"),
		Category:    first("category"),
		Quantity:    first("quantity"),
		Shipping:    first("shipping"),
	}

	file, header, err := c.R.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return in, err
	}
	defer file.Close()

	in.PhotoSize = header.Size
	if header.Size > models.MaxPhotoBytes {
		return in, nil
	}
	data, err := io.ReadAll(io.LimitReader(file, models.MaxPhotoBytes+1))
	if err != nil {
		return in, err
	}
	in.PhotoSize = int64(len(data))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	in.Photo = &models.Photo{Data: data, ContentType: contentType}
	return in, nil
}

func (ctl *ProductController) Create(c *appctx.Context) {
	in, err := readForm(c)
	if err != nil {
		c.Fail(http.StatusBadRequest, "Invalid form data", err)
		return
	}
	p, err := ctl.products.Create(c.Context(), in)
	if err != nil {
		fail(c, err, "Error in creating product")
		return
	}
	c.Created("Product created successfully", response.Map{"products": p})
}

func (ctl *ProductController) Update(c *appctx.Context) {
	in, err := readForm(c)
	if err != nil {
		c.Fail(http.StatusBadRequest, "Invalid form data", err)
		return
	}
	p, err := ctl.products.Update(c.Context(), c.Param("pid"), in)
	if err != nil {
		fail(c, err, "Error in updating product")
		return
	}
	c.Created("Product updated successfully", response.Map{"products": p})
}

func (ctl *ProductController) Delete(c *appctx.Context) {
	if err := ctl.products.Delete(c.Context(), c.Param("pid")); err != nil {
		fail(c, err, "Error while deleting product")
		return
	}
	c.Success("Product deleted successfully", nil)
}

// List returns the newest products.
func (ctl *ProductController) List(c *appctx.Context) {
	list, err := ctl.products.Latest(c.Context())
	if err != nil {
		fail(c, err, "Error in getting products")
		return
	}
	c.Success("All products", response.Map{"countTotal": len(list), "products": list})
}

func (ctl *ProductController) Single(c *appctx.Context) {
	p, err := ctl.products.BySlug(c.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "Error while getting single product")
		return
	}
	c.Success("Single product fetched", response.Map{"product": p})
}

// Photo streams the stored image bytes.
func (ctl *ProductController) Photo(c *appctx.Context) {
	photo, err := ctl.products.Photo(c.Context(), c.Param("pid"))
	if err != nil {
		fail(c, err, "Error while getting photo")
		return
	}
	c.SetHeader("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, photo.ContentType, photo.Data)
}

func (ctl *ProductController) Filters(c *appctx.Context) {
	var in struct {
		Checked []string  `json:"checked"`
		Radio   []float64 `json:"radio"`
	}
	if !c.BindJSON(&in) {
		return
	}
	list, err := ctl.products.Filter(c.Context(), in.Checked, in.Radio)
	if err != nil {
		fail(c, err, "Error while filtering products")
		return
	}
	c.Success("", response.Map{"products": list})
}

func (ctl *ProductController) Count(c *appctx.Context) {
	n, err := ctl.products.Count(c.Context())
	if err != nil {
		fail(c, err, "Error in product count")
		return
	}
	c.Success("", response.Map{"total": n})
}

// Page: GET /product-list/{page}. Non-numeric pages read as 1.
func (ctl *ProductController) Page(c *appctx.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		page = 1
	}
	list, err := ctl.products.Page(c.Context(), page)
	if err != nil {
		fail(c, err, "Error in per page ctrl")
		return
	}
	c.Success("", response.Map{"products": list})
}

// Search answers with a bare array.
func (ctl *ProductController) Search(c *appctx.Context) {
	list, err := ctl.products.Search(c.Context(), c.Param("keyword"))
	if err != nil {
		fail(c, err, "Error in search product API")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *ProductController) Related(c *appctx.Context) {
	list, err := ctl.products.Related(c.Context(), c.Param("pid"), c.Param("cid"))
	if err != nil {
		fail(c, err, "Error while getting related product")
		return
	}
	c.Success("", response.Map{"products": list})
}

func (ctl *ProductController) ByCategory(c *appctx.Context) {
	category, list, err := ctl.products.ByCategorySlug(c.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "Error while getting products")
		return
	}
	c.Success("", response.Map{"category": category, "products": list})
}
