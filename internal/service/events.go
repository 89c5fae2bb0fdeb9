package service

// Publisher receives catalog change events once they are committed.
type Publisher interface {
	Publish(payload any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(any) {}

const eventType = "catalog_update"

func productEvent(action string, id uint, name string) map[string]interface{} {
	return map[string]interface{}{
		"type":   eventType,
		"action": action,
		"product": map[string]interface{}{
			"id":   id,
			"name": name,
		},
	}
}

func colorEvent(action string, id, productID uint, name string, price float64, currency string) map[string]interface{} {
	return map[string]interface{}{
		"type":   eventType,
		"action": action,
		"color": map[string]interface{}{
			"id":         id,
			"product_id": productID,
			"name":       name,
			"price":      price,
			"currency":   currency,
		},
	}
}
