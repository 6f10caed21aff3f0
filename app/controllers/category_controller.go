package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

type categoryInput struct {
	Name string `json:"name"`
}

func (ctl *CategoryController) Create(c *appctx.Context) {
	var in categoryInput
	if !c.BindJSON(&in) {
		return
	}
	category, err := ctl.categories.Create(c.Context(), in.Name)
	if err != nil {
		fail(c, err, "Error in category")
		return
	}
	c.Created("New category created", response.Map{"category": category})
}

func (ctl *CategoryController) Update(c *appctx.Context) {
	var in categoryInput
	if !c.BindJSON(&in) {
		return
	}
	category, err := ctl.categories.Update(c.Context(), c.Param("id"), in.Name)
	if err != nil {
		fail(c, err, "Error while updating category")
		return
	}
	c.Success("Category updated successfully", response.Map{"category": category})
}

func (ctl *CategoryController) Delete(c *appctx.Context) {
	if err := ctl.categories.Delete(c.Context(), c.Param("id")); err != nil {
		fail(c, err, "Error while deleting category")
		return
	}
	c.Success("Category deleted successfully", nil)
}

func (ctl *CategoryController) List(c *appctx.Context) {
	list, err := ctl.categories.List(c.Context())
	if err != nil {
		fail(c, err, "Error while getting all categories")
		return
	}
	c.Success("All categories list", response.Map{"category": list})
}

func (ctl *CategoryController) Single(c *appctx.Context) {
	category, err := ctl.categories.BySlug(c.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "Error while getting single category")
		return
	}
	c.Success("Get single category successfully", response.Map{"category": category})
}
