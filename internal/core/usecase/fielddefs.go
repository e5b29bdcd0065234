package usecase

import (
	"regexp"

	"github.com/haulbase/freightdocs/internal/core/domain"
)

// fieldDef is one extractable field: a key plus its regex fallback. Order in
// the per-type list is the order fields appear in reports.
type fieldDef struct {
	key     string
	pattern *regexp.Regexp
}

func def(key, pattern string) fieldDef {
	return fieldDef{key: key, pattern: regexp.MustCompile(`(?i)` + pattern)}
}

var bolFields = []fieldDef{
	def("bol_number", `b/?l[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("order_number", `(?:order|load)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("shipper", `shipper[\s:]+([A-Za-z][A-Za-z ,.&]+)`),
	def("consignee", `consignee[\s:]+([A-Za-z][A-Za-z ,.&]+)`),
	def("origin", `(?:origin|port of loading)[\s:]+([A-Za-z][A-Za-z ,]+)`),
	def("destination", `(?:destination|port of discharge)[\s:]+([A-Za-z][A-Za-z ,]+)`),
	def("ship_date", `(?:ship date|date)[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	def("carrier", `carrier[\s:]+([A-Za-z][A-Za-z ,.&]+)`),
	def("total_weight", `(?:total weight|gross weight)[\s:]*([0-9,.]+\s*(?:lbs|kg)?)`),
	def("freight_terms", `(?:freight terms|terms)[\s:]*(prepaid|collect|third party)`),
}

var podFields = []fieldDef{
	def("order_number", `(?:order|load)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("delivery_date", `(?:delivery date|delivered on)[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	def("delivered_to", `(?:delivered to|received by|recipient)[\s:]+([A-Za-z][A-Za-z ]+)`),
	def("condition", `(?:condition|goods condition)[\s:]*(good|damaged|partial|refused)`),
	def("driver_name", `driver(?:\s+name)?[\s:]+([A-Za-z][A-Za-z ]+)`),
}

var invoiceFields = []fieldDef{
	def("invoice_number", `invoice[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("invoice_date", `(?:invoice date|date)[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	def("order_number", `(?:order|po)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("seller", `(?:seller|vendor)[\s:]+([A-Za-z][A-Za-z ,.&]+)`),
	def("buyer", `(?:buyer|bill to|sold to)[\s:]+([A-Za-z][A-Za-z ,.&]+)`),
	def("total_amount", `(?:grand total|total amount|total)[\s:]*\$?\s*([0-9][0-9,.]*)`),
	def("payment_terms", `(?:payment terms|terms)[\s:]*(net\s*\d+|due on receipt|prepaid)`),
}

var packingFields = []fieldDef{
	def("order_number", `(?:order|load|ref)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("packing_date", `(?:packing date|date)[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	def("total_cartons", `(?:total cartons|cartons|total packages|packages)[\s:]*([0-9,]+)`),
	def("gross_weight", `(?:gross weight|total gross)[\s:]*([0-9,.]+\s*(?:lbs|kg)?)`),
	def("destination", `(?:destination|ship to)[\s:]+([A-Za-z][A-Za-z ,]+)`),
}

var hazmatFields = []fieldDef{
	def("un_number", `un[\s#:.]*(?:no\.?|number)?[\s:]*(\d{4})`),
	def("shipping_name", `(?:proper shipping name|shipping name)[\s:]+([A-Za-z][A-Za-z ,]+)`),
	def("hazard_class", `(?:hazard class|class)[\s:]*([0-9.]+[A-Z]?)`),
	def("packing_group", `(?:packing group|pg)[\s:]*(I{1,3}|[123])`),
	def("emergency_contact", `(?:emergency contact|emergency|chemtrec)[\s:]*([0-9\-+() ]{7,})`),
}

var lumperFields = []fieldDef{
	def("order_number", `(?:order|load|ref)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("date", `date[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	def("service_type", `(?:service|type)[\s:]*(unloading|loading|both)`),
	def("amount", `(?:amount|total|fee|charge)[\s:]*\$?\s*([0-9][0-9,.]*)`),
	def("facility", `(?:facility|warehouse)[\s:]+([A-Za-z0-9][A-Za-z0-9 ,#.]+)`),
}

var tripFields = []fieldDef{
	def("trip_number", `trip[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("driver_name", `driver(?:\s+name)?[\s:]+([A-Za-z][A-Za-z ]+)`),
	def("truck_number", `(?:truck|unit|vehicle)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("date", `date[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	def("total_miles", `(?:total miles|miles driven|mileage)[\s:]*([0-9,]+)`),
}

var freightInvoiceFields = []fieldDef{
	def("pro_number", `pro[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("invoice_number", `invoice[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("order_number", `(?:order|load|ref)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("invoice_date", `(?:invoice date|date)[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
	def("carrier_name", `carrier(?:\s+name)?[\s:]+([A-Za-z][A-Za-z ,.&]+)`),
	def("total_charges", `(?:total charges|amount due|total)[\s:]*\$?\s*([0-9][0-9,.]*)`),
}

// genericFields is the fallback set used when classification is Unknown.
var genericFields = []fieldDef{
	def("order_number", `(?:order|po)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("load_number", `(?:load|shipment)[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("invoice_number", `inv(?:oice)?[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("reference_number", `ref(?:erence)?[\s#:.]*(?:no\.?|number)?[\s:]*([A-Z0-9-]+)`),
	def("date", `date[\s:]*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
}

var fieldDefsByType = map[domain.DocType][]fieldDef{
	domain.DocTypeBillOfLading:      bolFields,
	domain.DocTypeProofOfDelivery:   podFields,
	domain.DocTypeCommercialInvoice: invoiceFields,
	domain.DocTypePackingList:       packingFields,
	domain.DocTypeHazmat:            hazmatFields,
	domain.DocTypeLumperReceipt:     lumperFields,
	domain.DocTypeTripSheet:         tripFields,
	domain.DocTypeFreightInvoice:    freightInvoiceFields,
}

func fieldDefsFor(t domain.DocType) []fieldDef {
	if defs, ok := fieldDefsByType[t]; ok {
		return defs
	}
	return genericFields
}

// Preferred keys, in order, for the promoted top-level outcome attributes.
var (
	orderNumberKeys   = []string{"order_number", "trip_number", "load_number", "pro_number", "reference_number"}
	invoiceNumberKeys = []string{"invoice_number"}
	documentDateKeys  = []string{"invoice_date", "delivery_date", "ship_date", "packing_date", "date"}
)
