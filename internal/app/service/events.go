package service

type DealerEventType string

const (
	EventDealerCreated  DealerEventType = "dealer.created"
	EventDealerUpdated  DealerEventType = "dealer.updated"
	EventDealerDeleted  DealerEventType = "dealer.deleted"
	EventDealerImported DealerEventType = "dealer.imported"
	EventNotice         DealerEventType = "notice"
)

// DealerEvent tells connected dashboards that the collection changed.
type DealerEvent struct {
	Type     DealerEventType `json:"type"`
	DealerID int64           `json:"dealer_id,omitempty"`
	Notice   *Notice         `json:"notice,omitempty"`
}

type EventPublisher interface {
	Publish(event DealerEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(DealerEvent) {}
