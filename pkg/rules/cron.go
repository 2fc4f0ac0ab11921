package rules

import (
	"fmt"
	"strings"

	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/registry"
	"github.com/dukex/operion-analyzer/pkg/template"
	"github.com/robfig/cron/v3"
)

var cronNodeTypes = map[string]bool{
	registry.NodeTypeCron:            true,
	registry.NodeTypeScheduleTrigger: true,
}

// Parameter names that hold a cron expression on schedule nodes.
var cronFields = map[string]bool{
	"cron":           true,
	"cronExpression": true,
}

// Six-field expressions carry a leading seconds field.
var secondsParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// CronExpressionRule checks the shape of cron expressions on schedule trigger
// nodes. Expression values are resolved at run time and are skipped.
type CronExpressionRule struct{}

func (CronExpressionRule) Name() string { return "cron-expression" }

func (CronExpressionRule) Check(in Input) []models.Finding {
	findings := make([]models.Finding, 0)

	for _, node := range in.Graph.Nodes() {
		if !cronNodeTypes[node.Type] {
			continue
		}

		walkStrings("", node.Parameters, func(field, value string) {
			if !cronFields[fieldName(field)] || template.IsExpression(value) {
				return
			}

			if err := parseCron(value); err != nil {
				findings = append(findings, models.Finding{
					Severity: models.SeverityError,
					Kind:     models.KindInvalidCronExpression,
					Message:  fmt.Sprintf("parameter %q of node %q: invalid cron expression %q: %v", field, node.ID, value, err),
					NodeID:   node.ID,
				})
			}
		})
	}

	return findings
}

func parseCron(expression string) error {
	var err error

	if len(strings.Fields(expression)) == 6 {
		_, err = secondsParser.Parse(expression)
	} else {
		_, err = cron.ParseStandard(expression)
	}

	return err
}

// fieldName returns the last key of a walkStrings path, without list indexes.
func fieldName(field string) string {
	name := field[strings.LastIndexByte(field, '.')+1:]
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}

	return name
}
