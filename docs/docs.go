// Package docs holds the OpenAPI document served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/v1/healthz": {
			"get": {
				"tags": [
					"system"
				],
				"summary": "Liveness check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.HealthResponse"
						}
					}
				}
			}
		},
		"/v1/voices": {
			"get": {
				"tags": [
					"voices"
				],
				"summary": "List voices",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.VoicesResponse"
						}
					}
				}
			}
		},
		"/v1/tags": {
			"get": {
				"tags": [
					"config"
				],
				"summary": "List stage-direction tags",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.TagsResponse"
						}
					}
				}
			}
		},
		"/v1/config": {
			"get": {
				"tags": [
					"config"
				],
				"summary": "Current generation choices",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.ConfigResponse"
						}
					}
				}
			},
			"patch": {
				"tags": [
					"config"
				],
				"summary": "Update generation choices",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/studio.ConfigPatch"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.ConfigResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/config/tags": {
			"post": {
				"tags": [
					"config"
				],
				"summary": "Insert a stage-direction tag into the text",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.InsertTagRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.InsertTagResponse"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/generate": {
			"post": {
				"tags": [
					"generate"
				],
				"summary": "Synthesize the current script",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Optional changes applied before generating",
						"name": "body",
						"in": "body",
						"required": false,
						"schema": {
							"$ref": "#/definitions/studio.ConfigPatch"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/studio.HistoryItem"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"502": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"503": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/voices/{id}/preview": {
			"post": {
				"tags": [
					"voices"
				],
				"summary": "Preview a voice",
				"produces": [
					"audio/wav"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Voice id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "WAV file",
						"schema": {
							"type": "file"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/history": {
			"get": {
				"tags": [
					"history"
				],
				"summary": "List generated clips",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.HistoryResponse"
						}
					}
				}
			}
		},
		"/v1/history/{id}": {
			"delete": {
				"tags": [
					"history"
				],
				"summary": "Delete a clip",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "History item id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.DeleteResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/history/{id}/download": {
			"get": {
				"tags": [
					"history"
				],
				"summary": "Download a clip",
				"produces": [
					"audio/wav"
				],
				"parameters": [
					{
						"type": "string",
						"description": "History item id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "WAV file",
						"schema": {
							"type": "file"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/history/{id}/play": {
			"post": {
				"tags": [
					"playback"
				],
				"summary": "Play a clip",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "History item id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"202": {
						"description": "Accepted",
						"schema": {
							"$ref": "#/definitions/studio.PlaybackStatus"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/playback": {
			"get": {
				"tags": [
					"playback"
				],
				"summary": "Playback status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/studio.PlaybackStatus"
						}
					}
				}
			}
		},
		"/v1/playback/stop": {
			"post": {
				"tags": [
					"playback"
				],
				"summary": "Stop playback",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.StopResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/media/{id}": {
			"get": {
				"tags": [
					"history"
				],
				"summary": "Fetch playable audio",
				"produces": [
					"audio/wav"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Media id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "WAV file",
						"schema": {
							"type": "file"
						}
					},
					"404": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/wav": {
			"post": {
				"tags": [
					"audio"
				],
				"summary": "Frame base64 PCM as WAV",
				"produces": [
					"audio/wav"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.WAVRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "WAV file",
						"schema": {
							"type": "file"
						}
					},
					"400": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/clone": {
			"get": {
				"tags": [
					"clone"
				],
				"summary": "Voice sampler status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/pitch.Status"
						}
					}
				}
			}
		},
		"/v1/clone/stream": {
			"get": {
				"tags": [
					"clone"
				],
				"summary": "Stream microphone audio from the browser",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Bearer token, for clients that cannot set headers",
						"name": "token",
						"in": "query"
					}
				],
				"responses": {
					"101": {
						"description": "Switching Protocols"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/clone/start": {
			"post": {
				"tags": [
					"clone"
				],
				"summary": "Start sampling from the server's microphone",
				"produces": [
					"application/json"
				],
				"responses": {
					"202": {
						"description": "Accepted",
						"schema": {
							"$ref": "#/definitions/pitch.Status"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					},
					"503": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/clone/stop": {
			"post": {
				"tags": [
					"clone"
				],
				"summary": "Stop sampling",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/api.StopCloneResponse"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/clone/save": {
			"post": {
				"tags": [
					"clone"
				],
				"summary": "Save the sample as a custom voice",
				"produces": [
					"application/json"
				],
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/api.SaveCloneRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/api.SaveCloneResponse"
						}
					},
					"200": {
						"description": "Blank name, nothing saved",
						"schema": {
							"$ref": "#/definitions/api.SaveCloneResponse"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/v1/clone/cancel": {
			"post": {
				"tags": [
					"clone"
				],
				"summary": "Discard the sample",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/pitch.Status"
						}
					},
					"409": {
						"description": "Error",
						"schema": {
							"$ref": "#/definitions/api.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"api.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"api.HealthResponse": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"busy": {
					"type": "boolean"
				}
			}
		},
		"api.VoicesResponse": {
			"type": "object",
			"properties": {
				"voices": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/voice.Option"
					}
				}
			}
		},
		"api.TagsResponse": {
			"type": "object",
			"properties": {
				"tags": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/tts.Tag"
					}
				}
			}
		},
		"api.ConfigResponse": {
			"type": "object",
			"properties": {
				"config": {
					"$ref": "#/definitions/tts.GenerationConfig"
				},
				"cursor": {
					"type": "integer"
				},
				"options": {
					"$ref": "#/definitions/tts.Options"
				}
			}
		},
		"api.InsertTagRequest": {
			"type": "object",
			"properties": {
				"start": {
					"type": "integer"
				},
				"end": {
					"type": "integer"
				},
				"tag": {
					"type": "string"
				}
			}
		},
		"api.InsertTagResponse": {
			"type": "object",
			"properties": {
				"text": {
					"type": "string"
				},
				"cursor": {
					"type": "integer"
				}
			}
		},
		"api.HistoryResponse": {
			"type": "object",
			"properties": {
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/studio.HistoryItem"
					}
				}
			}
		},
		"api.DeleteResponse": {
			"type": "object",
			"properties": {
				"deleted": {
					"type": "boolean"
				}
			}
		},
		"api.StopResponse": {
			"type": "object",
			"properties": {
				"stopped": {
					"type": "boolean"
				}
			}
		},
		"api.WAVRequest": {
			"type": "object",
			"properties": {
				"pcm": {
					"type": "string"
				},
				"sample_rate": {
					"type": "integer"
				},
				"channels": {
					"type": "integer"
				}
			}
		},
		"api.StopCloneResponse": {
			"type": "object",
			"properties": {
				"frequency": {
					"type": "number"
				}
			}
		},
		"api.SaveCloneRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				}
			}
		},
		"api.SaveCloneResponse": {
			"type": "object",
			"properties": {
				"saved": {
					"type": "boolean"
				},
				"voice": {
					"$ref": "#/definitions/voice.Option"
				}
			}
		},
		"pitch.Status": {
			"type": "object",
			"properties": {
				"state": {
					"type": "string"
				},
				"frequency": {
					"type": "number"
				}
			}
		},
		"studio.ConfigPatch": {
			"type": "object",
			"properties": {
				"text": {
					"type": "string"
				},
				"voice_id": {
					"type": "string"
				},
				"region": {
					"type": "string"
				},
				"style": {
					"type": "string"
				},
				"speed": {
					"type": "string"
				},
				"pitch": {
					"type": "string"
				}
			}
		},
		"studio.HistoryItem": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"text": {
					"type": "string"
				},
				"audio_id": {
					"type": "string"
				},
				"audio_url": {
					"type": "string"
				},
				"filename": {
					"type": "string"
				},
				"bytes": {
					"type": "integer"
				},
				"created_at": {
					"type": "string"
				},
				"voice_name": {
					"type": "string"
				},
				"style": {
					"type": "string"
				},
				"region": {
					"type": "string"
				}
			}
		},
		"studio.PlaybackStatus": {
			"type": "object",
			"properties": {
				"playing": {
					"type": "boolean"
				},
				"item_id": {
					"type": "string"
				},
				"source": {
					"type": "string"
				}
			}
		},
		"tts.Choice": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"label": {
					"type": "string"
				}
			}
		},
		"tts.GenerationConfig": {
			"type": "object",
			"properties": {
				"text": {
					"type": "string"
				},
				"voice_id": {
					"type": "string"
				},
				"region": {
					"type": "string"
				},
				"style": {
					"type": "string"
				},
				"speed": {
					"type": "string"
				},
				"pitch": {
					"type": "string"
				}
			}
		},
		"tts.Options": {
			"type": "object",
			"properties": {
				"regions": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/tts.Choice"
					}
				},
				"styles": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/tts.Choice"
					}
				},
				"speeds": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/tts.Choice"
					}
				},
				"pitches": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/tts.Choice"
					}
				}
			}
		},
		"tts.Tag": {
			"type": "object",
			"properties": {
				"tag": {
					"type": "string"
				},
				"label": {
					"type": "string"
				}
			}
		},
		"voice.Option": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"gender": {
					"type": "string"
				},
				"base_voice": {
					"type": "string"
				},
				"custom": {
					"type": "boolean"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VozViva Studio API",
	Description:      "Spanish text-to-speech studio: script editing, synthesis, history, playback and voice cloning.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
