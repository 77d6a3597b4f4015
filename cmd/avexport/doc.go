// Command avexport is the operator CLI for the interview artifact exporter:
// it runs the export loop in the foreground, inspects the export ledger, and
// previews destination paths without side effects.
package main
