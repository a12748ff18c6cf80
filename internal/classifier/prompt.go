package classifier

import (
	"encoding/json"
	"strings"

	"vizsynth/internal/roles"
)

// PromptBuilder renders the role classification prompt.
type PromptBuilder struct{}

var roleDescriptions = map[roles.RoleKind]string{
	roles.RoleDate:       "The primary date/time field for the calendar",
	roles.RoleWeekLabel:  "A label or category shown in calendar cells (week number, status, or any categorical label)",
	roles.RoleCategory:   "A grouping or classification field",
	roles.RoleLegend:     "A field used for color coding or legend",
	roles.RoleMeasure:    "A numeric value field",
	roles.RoleEventIndex: "A unique identifier or row index",
	roles.RoleEventGroup: "A date hierarchy field (Year/Quarter/Month) for grouping events",
}

func (pb *PromptBuilder) BuildRolePrompt(fieldNames, hierarchyHints []string) string {
	if fieldNames == nil {
		fieldNames = []string{}
	}
	if hierarchyHints == nil {
		hierarchyHints = []string{}
	}
	fieldsJSON, _ := json.MarshalIndent(fieldNames, "", "  ")
	hintsJSON, _ := json.MarshalIndent(hierarchyHints, "", "  ")

	var sb strings.Builder
	sb.WriteString("Role: BI data modelling expert. Task: classify report fields into semantic roles.\n\n")
	sb.WriteString("Fields: ")
	sb.Write(fieldsJSON)
	sb.WriteString("\nHierarchy: ")
	sb.Write(hintsJSON)

	sb.WriteString("\n\nREQUIRED ROLES (assign a field to ALL of these):\n")
	for _, r := range roles.All() {
		sb.WriteString("- ")
		sb.WriteString(string(r))
		sb.WriteString(": ")
		sb.WriteString(roleDescriptions[r])
		sb.WriteString("\n")
	}

	sb.WriteString("\nRULES:\n")
	sb.WriteString("- Field names containing \"date\", \"dt\", \"data\" or \"transaction\" are date fields.\n")
	sb.WriteString("- Field names containing \"week\" or \"label\" are week_label fields.\n")
	sb.WriteString("- Field names containing \"index\", \"id\", \"row\" or \"#\" are event_index fields.\n")
	sb.WriteString("- If a hierarchy is present, use the date field it references for event_group.\n")
	sb.WriteString("- Only use field names from the list above, spelled exactly.\n")

	sb.WriteString("\nReturn ONLY a JSON object with exactly these keys: ")
	keys := make([]string, 0, len(roles.All()))
	for _, r := range roles.All() {
		keys = append(keys, `"`+string(r)+`"`)
	}
	sb.WriteString(strings.Join(keys, ", "))
	sb.WriteString(". Each value is one field name. No markdown, no explanation.\n")
	return sb.String()
}
