// Package handlers implements the HTTP API layer of the reporting service.
//
// Handlers read the path and query parameters, delegate to the services
// layer and write the JSON, CSV or XLSX response. They hold no query logic.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Parameter parsing                                            │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Response envelopes and export encodings                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  Dataset │ Device │ Alert │ Certificate │ Geo │ Overview        │
//	└─────────────────────────────────────────────────────────────────┘
//
// Routes are mounted by Handler.Register under the /api/v1 group.
//
// # Raw datasets
//
//	GET /devices/:companyId/raw/:dataset?page&limit&sortBy&sortOrder&<filters>&column_filters=<json>
//
// Response:
//
//	{
//	    "data": [ { "id": 1, "dev_eui": "A81758FFFE000001", ... } ],
//	    "pagination": {
//	        "current_page": 1,
//	        "per_page": 50,
//	        "total_records": 120,
//	        "total_pages": 3
//	    }
//	}
//
// GET /devices/:companyId/gps-data accepts latest_only=true to keep only the
// most recent fix of every device and wraps the same page in
// {"success": true, ...}.
//
// # Exports
//
//	GET /devices/:companyId/export/:table/:format    format: json|csv|xlsx
//	GET /alerts/:companyId/export?format=json|csv|xlsx
//
// JSON exports return {"success": true, "data": [...], "total": n}. CSV and
// XLSX are sent with Content-Disposition: attachment.
//
// # Error Handling
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ Body                         │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ ValidationError             │ 400    │ {"error"}                    │
//	│ ResourceNotFoundError       │ 404    │ {"error"}                    │
//	│ Any other error             │ 500    │ {"error", "message"}         │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
package handlers
