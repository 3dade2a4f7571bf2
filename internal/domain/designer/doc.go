// Package designer contains the label designer bounded context.
// This context owns the element model placed on a virtual sheet of paper,
// the persisted label designs built from those elements, and the ingestion
// validation applied to element sets supplied by the host application.
package designer
