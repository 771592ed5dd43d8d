package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"

	catalogmodel "github.com/chatfood/chatfood/internal/model/catalog"
	ordermodel "github.com/chatfood/chatfood/internal/model/order"
	"github.com/chatfood/chatfood/internal/service/order"
)

const (
	toolFoodSearch       = "food_search"
	toolCancelOrder      = "cancel_order"
	toolCommentOrder     = "comment_order"
	toolCheckOrderStatus = "check_order_status"
)

// CatalogSearcher narrows the catalog service surface the tools need.
type CatalogSearcher interface {
	Search(ctx context.Context, foodName, restaurantName string) ([]catalogmodel.Item, error)
}

// OrderActions narrows the order service surface the tools need.
type OrderActions interface {
	Status(ctx context.Context, id int64) (ordermodel.Order, error)
	Cancel(ctx context.Context, id int64, phone string) (ordermodel.Order, error)
	Comment(ctx context.Context, id int64, person, comment string) (ordermodel.Order, error)
}

// toolset executes the four named actions on behalf of the model. Tool
// failures become plain-language results fed back to the model, never turn
// failures.
type toolset struct {
	catalog CatalogSearcher
	orders  OrderActions
}

func toolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: toolFoodSearch,
			Desc: "Search the food catalog by food and/or restaurant name. Both fields are optional fragments.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"food_name":       {Type: schema.String, Desc: "Food name fragment to match"},
				"restaurant_name": {Type: schema.String, Desc: "Restaurant name fragment to match"},
			}),
		},
		{
			Name: toolCancelOrder,
			Desc: "Cancel an undelivered order. Requires the order id and the phone number used for the order.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id":     {Type: schema.Integer, Desc: "Numeric order id", Required: true},
				"phone_number": {Type: schema.String, Desc: "Phone number on the order", Required: true},
			}),
		},
		{
			Name: toolCommentOrder,
			Desc: "Attach a comment to an order on behalf of a person.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id":    {Type: schema.Integer, Desc: "Numeric order id", Required: true},
				"person_name": {Type: schema.String, Desc: "Name of the person commenting", Required: true},
				"comment":     {Type: schema.String, Desc: "Comment text", Required: true},
			}),
		},
		{
			Name: toolCheckOrderStatus,
			Desc: "Look up the current status of an order by id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {Type: schema.Integer, Desc: "Numeric order id", Required: true},
			}),
		},
	}
}

// flexInt64 tolerates models sending numeric arguments as JSON strings.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		*f = 0
		return nil
	}

	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", text, err)
	}
	*f = flexInt64(val)
	return nil
}

func (t *toolset) execute(ctx context.Context, tc schema.ToolCall) string {
	name := tc.Function.Name
	args := tc.Function.Arguments
	log.Printf("[services] tool call %s %s", name, args)

	switch name {
	case toolFoodSearch:
		return t.foodSearch(ctx, args)
	case toolCancelOrder:
		return t.cancelOrder(ctx, args)
	case toolCommentOrder:
		return t.commentOrder(ctx, args)
	case toolCheckOrderStatus:
		return t.checkOrderStatus(ctx, args)
	default:
		return fmt.Sprintf("Unknown tool %q requested.", name)
	}
}

func (t *toolset) foodSearch(ctx context.Context, rawArgs string) string {
	var args struct {
		FoodName       string `json:"food_name"`
		RestaurantName string `json:"restaurant_name"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return "The search arguments could not be understood."
	}

	items, err := t.catalog.Search(ctx, args.FoodName, args.RestaurantName)
	if err != nil {
		return "The catalog is unavailable right now."
	}
	if len(items) == 0 {
		return "No matching foods were found in the catalog."
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) - %s - %.2f",
			item.Name, item.Category, item.Restaurant, item.Price))
	}
	return strings.Join(lines, "\n")
}

func (t *toolset) cancelOrder(ctx context.Context, rawArgs string) string {
	var args struct {
		OrderID     flexInt64 `json:"order_id"`
		PhoneNumber string    `json:"phone_number"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return "The cancellation arguments could not be understood."
	}

	o, err := t.orders.Cancel(ctx, int64(args.OrderID), strings.TrimSpace(args.PhoneNumber))
	if err != nil {
		return orderErrorText(int64(args.OrderID), err)
	}
	return fmt.Sprintf("Order %d (%s) has been canceled.", o.ID, o.Items)
}

func (t *toolset) commentOrder(ctx context.Context, rawArgs string) string {
	var args struct {
		OrderID    flexInt64 `json:"order_id"`
		PersonName string    `json:"person_name"`
		Comment    string    `json:"comment"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return "The comment arguments could not be understood."
	}

	o, err := t.orders.Comment(ctx, int64(args.OrderID), strings.TrimSpace(args.PersonName), args.Comment)
	if err != nil {
		return orderErrorText(int64(args.OrderID), err)
	}
	return fmt.Sprintf("Comment recorded on order %d.", o.ID)
}

func (t *toolset) checkOrderStatus(ctx context.Context, rawArgs string) string {
	var args struct {
		OrderID flexInt64 `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return "The status arguments could not be understood."
	}

	o, err := t.orders.Status(ctx, int64(args.OrderID))
	if err != nil {
		return orderErrorText(int64(args.OrderID), err)
	}
	return fmt.Sprintf("Order %d (%s) for %s is currently %s.", o.ID, o.Items, o.PersonName, o.Status)
}

func orderErrorText(id int64, err error) string {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return fmt.Sprintf("No order with id %d was found.", id)
	case errors.Is(err, order.ErrPhoneMismatch):
		return fmt.Sprintf("The phone number does not match order %d.", id)
	case errors.Is(err, order.ErrAlreadyDelivered):
		return fmt.Sprintf("Order %d was already delivered and can no longer be canceled.", id)
	default:
		return fmt.Sprintf("The action on order %d failed: %v.", id, err)
	}
}
