package api

import "net/http"

// openAPIDocument serves the hand-maintained OpenAPI 3 description consumed
// by the Swagger UI at /docs.
func openAPIDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(openAPISpec))
}

const openAPISpec = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Matchday API",
    "description": "Minute-by-minute football match simulations with narrated actions, penalties, and live websocket streams.",
    "version": "1.0.0"
  },
  "paths": {
    "/health": {
      "get": {
        "tags": ["health"],
        "summary": "Health check",
        "responses": {"200": {"description": "Service is healthy"}}
      }
    },
    "/health/db": {
      "get": {
        "tags": ["health"],
        "summary": "Database health check",
        "responses": {
          "200": {"description": "Archive reachable or not configured"},
          "503": {"description": "Archive unreachable"}
        }
      }
    },
    "/api/v1/matches": {
      "post": {
        "tags": ["matches"],
        "summary": "Start a match simulation",
        "requestBody": {
          "required": false,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "home_team": {"$ref": "#/components/schemas/Team"},
                  "away_team": {"$ref": "#/components/schemas/Team"},
                  "seed": {"type": "integer", "format": "int64"},
                  "tie_breaker": {
                    "type": "string",
                    "enum": ["allow_tie", "extra_time_then_penalties", "penalties_only"]
                  },
                  "tick_delay_ms": {"type": "integer", "minimum": 0, "maximum": 10000}
                }
              }
            }
          }
        },
        "responses": {
          "202": {"description": "Simulation started; body carries the match ID and stream path"},
          "400": {"description": "Invalid body or team roster"}
        }
      },
      "get": {
        "tags": ["matches"],
        "summary": "List live and archived matches",
        "responses": {"200": {"description": "Match summaries"}}
      }
    },
    "/api/v1/matches/{id}": {
      "get": {
        "tags": ["matches"],
        "summary": "Full match state",
        "parameters": [{"$ref": "#/components/parameters/MatchID"}],
        "responses": {
          "200": {"description": "Match state including actions, stoppage, and config"},
          "404": {"description": "Unknown match ID"}
        }
      }
    },
    "/api/v1/matches/{id}/actions": {
      "get": {
        "tags": ["matches"],
        "summary": "Narrated action timeline",
        "parameters": [{"$ref": "#/components/parameters/MatchID"}],
        "responses": {
          "200": {"description": "Actions with resolved narration phrases"},
          "404": {"description": "Unknown match ID"}
        }
      }
    },
    "/api/v1/matches/{id}/stats": {
      "get": {
        "tags": ["matches"],
        "summary": "Per-team statistics",
        "parameters": [{"$ref": "#/components/parameters/MatchID"}],
        "responses": {
          "200": {"description": "Score, attempts, goals, possession, player evaluations"},
          "404": {"description": "Unknown match ID"}
        }
      }
    },
    "/api/v1/matches/{id}/stream": {
      "get": {
        "tags": ["matches"],
        "summary": "Live websocket stream",
        "description": "Upgrades to a websocket carrying minute and action events. Earlier events are replayed on connect.",
        "parameters": [{"$ref": "#/components/parameters/MatchID"}],
        "responses": {
          "101": {"description": "Switching protocols"},
          "404": {"description": "No live match with this ID"}
        }
      }
    }
  },
  "components": {
    "parameters": {
      "MatchID": {
        "name": "id",
        "in": "path",
        "required": true,
        "schema": {"type": "string", "format": "uuid"}
      }
    },
    "schemas": {
      "Team": {
        "type": "object",
        "required": ["full_name", "short_name", "players"],
        "properties": {
          "full_name": {"type": "string"},
          "short_name": {"type": "string"},
          "code": {"type": "string"},
          "color": {"type": "string"},
          "players": {
            "type": "array",
            "items": {"type": "string"},
            "minItems": 5,
            "description": "Index 0 is the goalkeeper"
          }
        }
      }
    }
  }
}`
