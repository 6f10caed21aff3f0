package controllers

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	gql "github.com/shashiranjanraj/storefront/pkg/graphql"
)

// resolveID reads the document id, which is tagged "_id" in JSON.
func resolveID(p graphql.ResolveParams) (any, error) {
	switch v := p.Source.(type) {
	case models.Category:
		return v.ID, nil
	case *models.Category:
		return v.ID, nil
	case models.Product:
		return v.ID, nil
	case *models.Product:
		return v.ID, nil
	}
	return nil, nil
}

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: resolveID},
		"name": &graphql.Field{Type: graphql.String},
		"slug": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: resolveID},
		"name":        &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"category":    &graphql.Field{Type: graphql.ID},
		"quantity":    &graphql.Field{Type: graphql.Int},
		"shipping":    &graphql.Field{Type: graphql.Boolean},
	},
})

// NewCatalogSchema exposes read-only catalog queries:
//
//	{ categories { id name slug } products { id name price } search(keyword: "lamp") { id } productCount }
func NewCatalogSchema(products *services.ProductService, categories *services.CategoryService) (graphql.Schema, error) {
	slugArg := graphql.FieldConfigArgument{"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return categories.List(p.Context)
				},
			},
			"category": &graphql.Field{
				Type: categoryType,
				Args: slugArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					c, err := categories.BySlug(p.Context, p.Args["slug"].(string))
					if err != nil {
						return nil, err
					}
					return *c, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{"page": &graphql.ArgumentConfig{Type: graphql.Int}},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if page, ok := p.Args["page"].(int); ok {
						return products.Page(p.Context, page)
					}
					return products.Latest(p.Context)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: slugArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					prod, err := products.BySlug(p.Context, p.Args["slug"].(string))
					if err != nil {
						return nil, err
					}
					return *prod, nil
				},
			},
			"search": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{"keyword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return products.Search(p.Context, p.Args["keyword"].(string))
				},
			},
			"productCount": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					n, err := products.Count(p.Context)
					return int(n), err
				},
			},
		},
	})
	return gql.NewSchema(query)
}
