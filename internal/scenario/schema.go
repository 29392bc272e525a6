package scenario

// Schema is the JSON schema every scenario file must satisfy.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "cleansim scenario",
  "type": "object",
  "additionalProperties": false,
  "required": ["cols", "rows", "robots", "mode", "request"],
  "properties": {
    "name": {
      "type": "string"
    },
    "cols": {
      "type": "integer",
      "minimum": 1
    },
    "rows": {
      "type": "integer",
      "minimum": 1
    },
    "robots": {
      "type": "integer",
      "minimum": 1
    },
    "mode": {
      "type": "string",
      "enum": ["time", "percentage"]
    },
    "request": {
      "type": "number",
      "exclusiveMinimum": 0
    },
    "seed": {
      "type": "integer",
      "minimum": 0
    },
    "directions": {
      "type": "array",
      "items": {
        "type": "string",
        "enum": ["up", "down", "left", "right", "u", "d", "l", "r"]
      }
    }
  },
  "if": {
    "properties": { "mode": { "const": "percentage" } }
  },
  "then": {
    "properties": { "request": { "maximum": 100 } }
  }
}`

const schemaURL = "cleansim-scenario.schema.json"
