// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package fabric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the classification of one shortcut API call. Successful
// calls carry the response content, failed ones carry the request
// body and the response text so the caller can report them.
type Result struct {
	Status            Status          `json:"status"`
	StatusCode        int             `json:"status_code"`
	StatusDescription string          `json:"status_description"`
	RequestURL        string          `json:"request_url"`
	RequestBody       any             `json:"request_body,omitempty"`
	ResponseContent   json.RawMessage `json:"response_content,omitempty"`
	ResponseText      json.RawMessage `json:"response_text,omitempty"`
}

func (r *Result) Success() bool {
	return r.Status == StatusSuccess
}

// Decode unmarshals the response content of a successful call into out.
func (r *Result) Decode(out any) error {
	if !r.Success() {
		return &APIError{Result: r}
	}
	return json.Unmarshal(r.ResponseContent, out)
}

// classify builds the result of a completed request, any 2xx status
// is a success.
func classify(resp *http.Response, requestURL string, requestBody any, body []byte) *Result {
	result := &Result{
		StatusCode:        resp.StatusCode,
		StatusDescription: reason(resp),
		RequestURL:        requestURL,
	}

	trimmed := bytes.TrimSpace(body)

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		result.Status = StatusSuccess
		if len(trimmed) == 0 {
			result.ResponseContent = json.RawMessage("{}")
		} else {
			result.ResponseContent = asJSON(trimmed)
		}
		return result
	}

	result.Status = StatusError
	result.RequestBody = requestBody
	if len(trimmed) > 0 {
		result.ResponseText = asJSON(trimmed)
	}

	return result
}

// asJSON keeps valid JSON documents as-is and quotes anything else.
func asJSON(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}

func reason(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if strings.HasPrefix(resp.Status, prefix) {
		return strings.TrimPrefix(resp.Status, prefix)
	}
	return http.StatusText(resp.StatusCode)
}

// APIError wraps a failed classification where the caller needs an error.
type APIError struct {
	Result *Result
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("shortcut API returned %d %s", e.Result.StatusCode, e.Result.StatusDescription)
	if len(e.Result.ResponseText) > 0 {
		var body struct {
			ErrorCode string `json:"errorCode"`
			Message   string `json:"message"`
		}
		if err := json.Unmarshal(e.Result.ResponseText, &body); err == nil && body.ErrorCode != "" {
			msg += fmt.Sprintf(": %s: %s", body.ErrorCode, body.Message)
		}
	}
	return msg
}
