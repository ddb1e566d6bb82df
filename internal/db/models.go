package db

import "github.com/mealcartapp/mealcart/internal/models"

type GroceryList = models.GroceryList
type GroceryListItem = models.GroceryListItem
type PriceComparison = models.PriceComparison
type Recipe = models.Recipe
type ShoppingCart = models.ShoppingCart
