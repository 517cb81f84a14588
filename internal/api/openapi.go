package api

import (
	"log/slog"
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/retailapi/internal/model"
	"github.com/erazemk/retailapi/web"
)

type doc = map[string]any

// OpenAPIDocument returns the OpenAPI 3.1 description of the API.
var OpenAPIDocument = sync.OnceValue(buildOpenAPI)

func ref(name string) doc {
	return doc{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema doc) doc {
	return doc{"application/json": doc{"schema": schema}}
}

func response(description string, schema doc) doc {
	r := doc{"description": description}
	if schema != nil {
		r["content"] = jsonContent(schema)
	}
	return r
}

func queryParam(name, description string, schema doc) doc {
	return doc{"name": name, "in": "query", "required": false, "description": description, "schema": schema}
}

var idParam = doc{"name": "id", "in": "path", "required": true, "schema": doc{"type": "integer"}}

var pageParams = []any{
	queryParam("page", "1-indexed page number", doc{"type": "integer", "minimum": 1, "default": model.DefaultPage}),
	queryParam("per_page", "page size", doc{"type": "integer", "minimum": 1, "maximum": model.MaxPerPage, "default": model.DefaultPerPage}),
}

var errorResponses = doc{
	"404": response("Not found", ref("Error")),
	"422": response("Validation error", ref("ValidationError")),
	"500": response("Storage error", ref("Error")),
}

func operation(id, summary string, params []any, body doc, ok string, okResp doc) doc {
	responses := doc{ok: okResp}
	for code, r := range errorResponses {
		responses[code] = r
	}
	op := doc{"operationId": id, "summary": summary, "responses": responses}
	if len(params) > 0 {
		op["parameters"] = params
	}
	if body != nil {
		op["requestBody"] = doc{"required": true, "content": jsonContent(body)}
	}
	return op
}

func paginated(item string) doc {
	return doc{
		"type":     "object",
		"required": []string{"items", "total", "page", "per_page", "total_pages"},
		"properties": doc{
			"items":       doc{"type": "array", "items": ref(item)},
			"total":       doc{"type": "integer"},
			"page":        doc{"type": "integer"},
			"per_page":    doc{"type": "integer"},
			"total_pages": doc{"type": "integer"},
		},
	}
}

func message() doc {
	return doc{"type": "object", "properties": doc{"message": doc{"type": "string"}}}
}

func buildOpenAPI() doc {
	statuses := make([]string, len(model.OrderStatuses))
	for i, s := range model.OrderStatuses {
		statuses[i] = string(s)
	}

	number := doc{"type": "number"}
	integer := doc{"type": "integer"}
	str := doc{"type": "string"}
	timestamp := doc{"type": "string", "format": "date-time"}
	nullableStr := doc{"type": []string{"string", "null"}}
	nullableInt := doc{"type": []string{"integer", "null"}}

	itemFields := doc{
		"title":       str,
		"description": nullableStr,
		"barcode":     str,
		"price":       number,
		"is_active":   doc{"type": "boolean", "default": true},
	}
	item := doc{"id": integer, "created_at": timestamp, "updated_at": timestamp}
	for k, v := range itemFields {
		item[k] = v
	}

	orderItemFields := doc{
		"item_id":    integer,
		"quantity":   doc{"type": "integer", "default": 1},
		"unit_price": number,
		"subtotal":   number,
	}
	orderItem := doc{"order_id": integer, "created_at": timestamp, "updated_at": timestamp}
	for k, v := range orderItemFields {
		orderItem[k] = v
	}

	schemas := doc{
		"ItemCreate":  doc{"type": "object", "required": []string{"title", "barcode", "price"}, "properties": itemFields},
		"Item":        doc{"type": "object", "properties": item},
		"OrderStatus": doc{"type": "string", "enum": statuses},
		"OrderItemCreate": doc{
			"type":       "object",
			"required":   []string{"item_id", "unit_price", "subtotal"},
			"properties": orderItemFields,
		},
		"OrderItem": doc{"type": "object", "properties": orderItem},
		"OrderCreate": doc{
			"type":     "object",
			"required": []string{"customer_id", "order_number", "order_items"},
			"properties": doc{
				"customer_id":   integer,
				"picked_key_id": nullableInt,
				"order_number":  str,
				"order_items":   doc{"type": "array", "items": ref("OrderItemCreate")},
			},
		},
		"Order": doc{
			"type": "object",
			"properties": doc{
				"id":            integer,
				"customer_id":   integer,
				"picked_key_id": nullableInt,
				"order_number":  str,
				"total_amount":  number,
				"status":        ref("OrderStatus"),
				"created_at":    timestamp,
				"updated_at":    timestamp,
				"order_items":   doc{"type": "array", "items": ref("OrderItem")},
			},
		},
		"PaginatedItems":  paginated("Item"),
		"PaginatedOrders": paginated("Order"),
		"Message":         message(),
		"Error":           doc{"type": "object", "properties": doc{"error": str}},
		"ValidationError": doc{
			"type": "object",
			"properties": doc{
				"error": str,
				"fields": doc{"type": "array", "items": doc{
					"type":       "object",
					"properties": doc{"field": str, "message": str},
				}},
			},
		},
	}

	isActive := queryParam("is_active", "filter on the active flag", doc{"type": "boolean", "default": true})
	statusFilter := queryParam("status", "filter on order status", ref("OrderStatus"))
	statusRequired := doc{"name": "status", "in": "query", "required": true, "schema": ref("OrderStatus")}

	paths := doc{
		"/items": doc{
			"get": operation("listItems", "List items", append([]any{isActive}, pageParams...), nil,
				"200", response("A page of items", ref("PaginatedItems"))),
			"post": operation("createItem", "Create an item", nil, ref("ItemCreate"),
				"201", response("The created item", ref("Item"))),
		},
		"/items/{id}": doc{
			"get": operation("getItem", "Get an item", []any{idParam}, nil,
				"200", response("The item", ref("Item"))),
			"put": operation("updateItem", "Replace an item", []any{idParam}, ref("ItemCreate"),
				"200", response("The updated item", ref("Item"))),
			"delete": operation("deleteItem", "Delete an item", []any{idParam}, nil,
				"200", response("Deletion confirmation", ref("Message"))),
		},
		"/orders": doc{
			"get": operation("listOrders", "List orders with their lines", append([]any{statusFilter}, pageParams...), nil,
				"200", response("A page of orders", ref("PaginatedOrders"))),
			"post": operation("createOrder", "Create an order", nil, ref("OrderCreate"),
				"201", response("The created order", ref("Order"))),
		},
		"/orders/{id}": doc{
			"get": operation("getOrder", "Get an order with its lines", []any{idParam}, nil,
				"200", response("The order", ref("Order"))),
		},
		"/orders/{id}/status": doc{
			"put": operation("updateOrderStatus", "Set an order's status", []any{idParam, statusRequired}, nil,
				"200", response("Update confirmation", ref("Message"))),
		},
	}

	return doc{
		"openapi": "3.1.0",
		"info": doc{
			"title":       "Sample Retail API",
			"version":     "1.0.0",
			"description": "Sample retail API with items and orders",
		},
		"paths":      paths,
		"components": doc{"schemas": schemas},
	}
}

func serveOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	out, err := yaml.Marshal(OpenAPIDocument())
	if err != nil {
		slog.Error("encoding openapi document", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(out)
}

func serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, OpenAPIDocument())
}

func serveDocs(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, web.StaticFS(), "docs.html")
}
