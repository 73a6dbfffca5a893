package descriptions

// Tool descriptions shown to MCP clients, with examples and workflows.

const (
	// Single-document tools
	ParseDomesticDescription = `Parse a domestic delivery note (ZAPI) PDF into batch and SSCC tables.

**When to use:** You have one domestic delivery note and need its batch lines, pallet counts and SSCC codes as CSV.

**Examples:**
• "Parse 80012345_ZAPI.pdf and list every batch with its variety and grade"
• "Which SSCC codes belong to batch F0123456 in delivery.pdf?"

**Output:** Two CSV tables. "batches" has one row per batch with the delivery header fields repeated on every row; "sscc" has one row per SSCC code.

**Best practices:** SSCC Qty is only filled when the pallet count printed on the batch line matches the number of SSCC codes found; a blank value means the counts disagreed.`

	ParseExportDescription = `Parse an export order PDF into the export table.

**When to use:** You have an export order and need one CSV row per batch with order, shipping and product fields.

**Examples:**
• "Parse 4500123.pdf and show the batch numbers with their pallet quantities"
• "What is the vessel ETD and destination on export-order.pdf?"

**Routing:** Files named *_PI.pdf or *_ZAPI.pdf are parsed as packing instructions.

**Best practices:** Reject products (non var, splits, brokens and similar) are reported with Size N/A and Packaging Bulk Bags, with bag counts and grades taken in document order.`

	ParsePackingListDescription = `Parse a packing instruction (PI) PDF into a single-row packing table.

**When to use:** You have a packing instruction and need its storage site, destination, pallet type and fumigation details.

**Examples:**
• "Parse 4500123_PI.pdf and tell me the final destination"
• "Is the shipment on 4500123_PI.pdf hand stacked?"

**Best practices:** 3rd Party Storage is only filled for known storage sites; a labelled final destination overrides any other destination found.`

	ParseTextDescription = `Parse document text that was already extracted, without reading a PDF.

**When to use:** You have the text of a document (from another tool, OCR, or a copy and paste) and want the same CSV tables the PDF tools produce.

**Examples:**
• "Parse this pasted export order text as doc_type export"
• "Check which fields the packing-list rules find in this text"

**Best practices:** Keep the original line breaks; most rules read labels and values line by line.`

	// Batch tools
	RunBatchDescription = `Process a set of PDF files or directories and write CSV outputs to disk.

**When to use:** Converting a folder of documents in one go, optionally into one combined CSV per table with a Source_File column.

**Examples:**
• "Run the export batch over /data/orders and combine the results"
• "Process every delivery note in /inbox with OCR enabled"

**Common workflows:**
1. Daily intake: run_batch with combine → open the combined CSV → review the QC report
2. Scanned documents: ocr_status → run_batch with ocr enabled

**Best practices:** Files without extractable text are skipped and logged, never fatal. Only one batch runs at a time.`

	OCRStatusDescription = `Report whether the OCR fallback tools (tesseract and pdftoppm) are installed.

**When to use:** Before processing scanned PDFs, or when a file was skipped for having no extractable text.

**Output:** "OCR READY" when both tools are found, otherwise "REGEX ONLY" with the missing tool named.`

	ServerInfoDescription = `Describe this server: version, output directory, OCR availability and the available tools.

**When to use:** At the start of a session to learn what the server can do and where it writes files.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"parse_domestic":     ParseDomesticDescription,
	"parse_export":       ParseExportDescription,
	"parse_packing_list": ParsePackingListDescription,
	"parse_text":         ParseTextDescription,
	"run_batch":          RunBatchDescription,
	"ocr_status":         OCRStatusDescription,
	"server_info":        ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// Summary returns the first line of a tool's description.
func Summary(toolName string) string {
	desc := GetToolDescription(toolName)
	for i, r := range desc {
		if r == '\n' {
			return desc[:i]
		}
	}
	return desc
}
