// Package record defines the types that flow through the export engine.
//
// # Formats
//
// Every export session encodes payloads in exactly one format, fixed at Init:
//
//	record.FormatJSON    // {"size":<n>,"data":"<escaped>"}
//	record.FormatCSV     // <n>,"<raw>"
//	record.FormatBinary  // BINARY_DATA_SIZE:<n>\n followed by the raw payload
//	record.FormatText    // payload verbatim, or a size placeholder when too large
//
// Formats can be parsed from configuration strings:
//
//	f, err := record.ParseFormat("csv")
//
// # Status
//
// A session moves through NotInitialized → Ready ⇄ Writing, with Error as a
// sticky state entered on storage failures:
//
//	StatusNotInitialized  // before Init, after Close
//	StatusReady           // accepting writes
//	StatusWriting         // an operation is in progress
//	StatusError           // last storage operation failed
//
// # Statistics
//
// Stats is a value copy; callers may keep and compare snapshots freely:
//
//	before := exp.Stats()
//	_ = exp.Write(payload, false)
//	after := exp.Stats()
//	fmt.Println(after.BufferOverflows - before.BufferOverflows)
package record
