package registry

import "github.com/dukex/operion-analyzer/pkg/models"

// Built-in node types.
const (
	NodeTypeManualTrigger    = "n8n-nodes-base.manualTrigger"
	NodeTypeWebhook          = "n8n-nodes-base.webhook"
	NodeTypeScheduleTrigger  = "n8n-nodes-base.scheduleTrigger"
	NodeTypeCron             = "n8n-nodes-base.cron"
	NodeTypeErrorTrigger     = "n8n-nodes-base.errorTrigger"
	NodeTypeHTTPRequest      = "n8n-nodes-base.httpRequest"
	NodeTypeIf               = "n8n-nodes-base.if"
	NodeTypeSwitch           = "n8n-nodes-base.switch"
	NodeTypeMerge            = "n8n-nodes-base.merge"
	NodeTypeSet              = "n8n-nodes-base.set"
	NodeTypeCode             = "n8n-nodes-base.code"
	NodeTypeFunction         = "n8n-nodes-base.function"
	NodeTypeSplitInBatches   = "n8n-nodes-base.splitInBatches"
	NodeTypeReadBinaryFile   = "n8n-nodes-base.readBinaryFile"
	NodeTypeWriteBinaryFile  = "n8n-nodes-base.writeBinaryFile"
	NodeTypeSpreadsheetFile  = "n8n-nodes-base.spreadsheetFile"
	NodeTypeMoveBinaryData   = "n8n-nodes-base.moveBinaryData"
	NodeTypeNoOp             = "n8n-nodes-base.noOp"
	NodeTypeRespondToWebhook = "n8n-nodes-base.respondToWebhook"
	NodeTypeWait             = "n8n-nodes-base.wait"
	NodeTypeStopAndError     = "n8n-nodes-base.stopAndError"
)

const mainPort = models.DefaultPort

// RegisterDefaultSpecs registers the built-in node data specs.
func (r *Registry) RegisterDefaultSpecs() {
	for _, spec := range defaultSpecs() {
		r.Register(spec)
	}
}

func trigger(nodeType, description string, parameters map[string]any) models.NodeDataSpec {
	return models.NodeDataSpec{
		NodeType:    nodeType,
		Description: description,
		Trigger:     true,
		Inputs:      map[string]models.InputPortSpec{},
		Outputs:     jsonOutput(true),
		Parameters:  parameters,
	}
}

func action(nodeType, description string, in, out models.DataType, guaranteed bool) models.NodeDataSpec {
	return models.NodeDataSpec{
		NodeType:    nodeType,
		Description: description,
		Inputs: map[string]models.InputPortSpec{
			mainPort: {Type: in, Required: true},
		},
		Outputs: map[string]models.OutputPortSpec{
			mainPort: {Type: out, Guaranteed: guaranteed},
		},
	}
}

func jsonOutput(guaranteed bool) map[string]models.OutputPortSpec {
	return map[string]models.OutputPortSpec{
		mainPort: {Type: models.DataTypeJSON, Guaranteed: guaranteed},
	}
}

func withParameters(spec models.NodeDataSpec, parameters map[string]any) models.NodeDataSpec {
	spec.Parameters = parameters

	return spec
}

func defaultSpecs() []models.NodeDataSpec {
	httpMethods := []any{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

	merge := action(NodeTypeMerge, "Merges items from two inputs", models.DataTypeJSON, models.DataTypeJSON, true)
	merge.Parameters = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mode": map[string]any{
				"type": "string",
				"enum": []any{"append", "combine", "chooseBranch", "mergeByIndex", "mergeByKey", "passThrough", "wait"},
			},
		},
	}

	readBinary := action(NodeTypeReadBinaryFile, "Reads a file from disk", models.DataTypeJSON, models.DataTypeBinary, true)
	readBinary.Inputs[mainPort] = models.InputPortSpec{Type: models.DataTypeJSON, Required: false}

	stop := action(NodeTypeStopAndError, "Stops the execution with an error", models.DataTypeJSON, models.DataTypeJSON, true)
	stop.Outputs = map[string]models.OutputPortSpec{}

	return []models.NodeDataSpec{
		trigger(NodeTypeManualTrigger, "Starts the workflow manually", nil),
		trigger(NodeTypeWebhook, "Starts the workflow on an incoming HTTP request", map[string]any{
			"type":     "object",
			"required": []any{"path"},
			"properties": map[string]any{
				"path":       map[string]any{"type": "string", "minLength": 1},
				"httpMethod": map[string]any{"type": "string", "enum": httpMethods},
			},
		}),
		trigger(NodeTypeScheduleTrigger, "Starts the workflow on a schedule", nil),
		trigger(NodeTypeCron, "Starts the workflow on a cron expression", nil),
		trigger(NodeTypeErrorTrigger, "Starts the workflow when another workflow fails", nil),
		withParameters(
			action(NodeTypeHTTPRequest, "Makes an HTTP request", models.DataTypeJSON, models.DataTypeJSON, true),
			map[string]any{
				"type":     "object",
				"required": []any{"url"},
				"properties": map[string]any{
					"url":            map[string]any{"type": "string", "minLength": 1},
					"method":         map[string]any{"type": "string", "enum": httpMethods},
					"requestMethod":  map[string]any{"type": "string", "enum": httpMethods},
					"responseFormat": map[string]any{"type": "string", "enum": []any{"json", "string", "file"}},
				},
			},
		),
		action(NodeTypeIf, "Routes items depending on a condition", models.DataTypeJSON, models.DataTypeJSON, false),
		action(NodeTypeSwitch, "Routes items to one of several outputs", models.DataTypeJSON, models.DataTypeJSON, false),
		merge,
		action(NodeTypeSet, "Sets values on items", models.DataTypeJSON, models.DataTypeJSON, true),
		action(NodeTypeCode, "Runs custom code", models.DataTypeJSON, models.DataTypeJSON, true),
		action(NodeTypeFunction, "Runs a custom function", models.DataTypeJSON, models.DataTypeJSON, true),
		action(NodeTypeSplitInBatches, "Splits items into batches", models.DataTypeJSON, models.DataTypeJSON, false),
		readBinary,
		action(NodeTypeWriteBinaryFile, "Writes binary data to disk", models.DataTypeBinary, models.DataTypeJSON, true),
		action(NodeTypeSpreadsheetFile, "Reads or writes spreadsheet files", models.DataTypeBinary, models.DataTypeJSON, true),
		action(NodeTypeMoveBinaryData, "Moves data between binary and JSON properties", models.DataTypeAny, models.DataTypeJSON, true),
		action(NodeTypeNoOp, "Does nothing", models.DataTypeAny, models.DataTypeAny, true),
		action(NodeTypeRespondToWebhook, "Returns data to the webhook caller", models.DataTypeJSON, models.DataTypeJSON, true),
		action(NodeTypeWait, "Waits before continuing", models.DataTypeJSON, models.DataTypeJSON, true),
		stop,
	}
}
