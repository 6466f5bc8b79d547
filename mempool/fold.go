package mempool

// EventSink receives the flattened observations of one response.
type EventSink interface {
	RecordAddressBatch(category Category, addresses []string)
	RecordTransaction(category Category)
	RecordField(field string)
}

// Fold walks content once and reports every address batch, transaction and
// known field to sink.
func Fold(content *Content, sink EventSink) {
	for _, category := range Categories {
		sink.RecordAddressBatch(category, content.Addresses(category))
	}
	for entry := range content.Entries() {
		sink.RecordTransaction(entry.Category)
		for _, field := range Fields {
			if entry.Has(field) {
				sink.RecordField(field)
			}
		}
	}
}
