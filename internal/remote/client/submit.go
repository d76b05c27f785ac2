package client

import (
	"context"
	"encoding/json"
	"fmt"

	"service-request-form/internal/form"
	"service-request-form/internal/logger"
)

const (
	ActionSaveRequest = "salvarRequisicao"

	ResultSuccess = "success"
	ResultError   = "error"
)

const (
	msgNotConfigured   = "A URL do endpoint remoto não foi configurada."
	msgCommunication   = "Erro na comunicação com o servidor"
	msgScriptError     = "O script retornou um erro."
	msgUnreadableReply = "Não foi possível processar a resposta do servidor."
)

type (
	Envelope struct {
		Action string       `json:"action"`
		Data   form.Payload `json:"data"`
	}

	Result struct {
		Result  string `json:"result"`
		Message string `json:"message,omitempty"`
	}
)

// Submit sends the payload to the remote endpoint. Every failure is an *Error.
func (c *Client) Submit(ctx context.Context, payload form.Payload) (Result, error) {
	settings := c.Settings()
	if !settings.configured() {
		return Result{}, &Error{Kind: KindConfiguration, Message: msgNotConfigured}
	}

	body, err := json.Marshal(Envelope{Action: ActionSaveRequest, Data: payload})
	if err != nil {
		return Result{}, &Error{Kind: KindNetwork, Message: msgCommunication, Err: err}
	}

	resp, err := c.invoke(ctx, settings, "application/json", body)
	if err != nil {
		return Result{}, &Error{Kind: KindNetwork, Message: msgCommunication + ": " + err.Error(), Err: err}
	}

	if settings.Mode == ModeFireAndForget {
		// nothing can be read back, delivery is assumed
		return Result{Result: ResultSuccess}, nil
	}

	if resp.code < 200 || resp.code > 299 {
		logger.Warning("Remote endpoint answered", resp.code, string(resp.body))
		return Result{}, &Error{
			Kind:    KindNetwork,
			Code:    resp.code,
			Message: fmt.Sprintf("%s: %s (%d)", msgCommunication, resp.status, resp.code),
		}
	}

	var result Result
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return Result{}, &Error{Kind: KindParse, Code: resp.code, Message: msgUnreadableReply, Err: err}
	}

	if result.Result == ResultError {
		msg := result.Message
		if msg == "" {
			msg = msgScriptError
		}
		return Result{}, &Error{Kind: KindApplication, Code: resp.code, Message: msg}
	}

	return result, nil
}
