package events

// Topics emitted by the order engine.
const (
	TopicCartItemAdded   = "cart.item_added"
	TopicCartItemRemoved = "cart.item_removed"
	TopicCartCleared     = "cart.cleared"
	TopicItemRated       = "catalog.item_rated"
	TopicItemCustomized  = "catalog.item_customized"
	TopicOrderConfirmed  = "order.confirmed"
)
