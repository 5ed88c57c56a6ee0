package llm

import vertexgenai "cloud.google.com/go/vertexai/genai"

// RoutingSchema is the structured output contract for department routing.
func RoutingSchema() *vertexgenai.Schema {
	return &vertexgenai.Schema{
		Type: vertexgenai.TypeObject,
		Properties: map[string]*vertexgenai.Schema{
			"message_type": {
				Type: vertexgenai.TypeString,
				Enum: []string{"complaint", "suggestion", "inquiry"},
			},
			"routing_confidence": {
				Type:        vertexgenai.TypeNumber,
				Description: "confidence between 0.0 and 1.0",
			},
			"suggested_department_name": {Type: vertexgenai.TypeString},
			"suggested_department_id": {
				Type:     vertexgenai.TypeInteger,
				Nullable: true,
			},
			"reason":      {Type: vertexgenai.TypeString},
			"explanation": {Type: vertexgenai.TypeString},
		},
		Required: []string{"message_type", "routing_confidence", "suggested_department_name", "reason"},
	}
}
