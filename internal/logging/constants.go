package logging

// Standardized field names for structured logging.
// Every component logs with these keys so log output can be filtered per run,
// per file or per pipeline stage.
const (
	FieldFile        = "file_path"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldDelimiter   = "delimiter"
	FieldCount       = "count"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldStage       = "stage"
	FieldDuration    = "duration_ms"
	FieldCustomerID  = "customer_id"
	FieldColumn      = "column"
	FieldSegment     = "segment"
	FieldAnalysisID  = "analysis_id"
	FieldRows        = "rows"
	FieldCustomers   = "customers"
	FieldFormat      = "format"
	FieldComponent   = "component"
	FieldModel       = "model"
	FieldAddress     = "address"
	FieldReferenceDt = "reference_date"
)
