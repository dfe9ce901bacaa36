// Package schedulefa turns brokerage equity-compensation records into the
// entries of the Indian income-tax return Schedule FA, Table A3.
//
// The pipeline is: ingest acquisitions (see the etrade subpackage), look up
// fair market values in a sparse per-ticker price history, convert to INR
// with the RBI monthly reference rate of the previous calendar month, and
// aggregate per ticker into one disclosure entry per in-period acquisition
// plus a single carried-forward entry for pre-period holdings. The result is
// dumped losslessly as JSONL for audit and exported as the filing-shaped CSV.
//
// All monetary math is decimal; rounding to whole rupees happens only when
// writing the CSV.
package schedulefa
