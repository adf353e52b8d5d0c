package fmg

import "encoding/json"

// Request and response envelopes for the two API surfaces the GUI uses.
// The /jsonrpc endpoint speaks FortiManager's own JSON-RPC flavor (not
// 2.0): a params list, a session token and per-result status objects. The
// flatui endpoints wrap a single params object and authenticate through
// cookies instead of the session token.

type rpcRequest struct {
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	Session any    `json:"session"`
	Verbose int    `json:"verbose,omitempty"`
}

type rpcResponse struct {
	ID      int         `json:"id"`
	Session string      `json:"session,omitempty"`
	Result  []rpcResult `json:"result"`
}

type rpcResult struct {
	URL    string          `json:"url,omitempty"`
	Status rpcStatus       `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type rpcStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type loginParams struct {
	Data []loginData `json:"data"`
	URL  string      `json:"url"`
}

type loginData struct {
	User   string `json:"user"`
	Passwd string `json:"passwd"`
}

type deviceParams struct {
	LoadSub int        `json:"loadsub"`
	URL     string     `json:"url"`
	Fields  []string   `json:"fields"`
	Filter  [][]string `json:"filter"`
}

type flatuiRequest struct {
	URL    string `json:"url"`
	Method string `json:"method"`
	Params any    `json:"params"`
}

type flatuiLoginParams struct {
	Username  string `json:"username"`
	SecretKey string `json:"secretkey"`
	LoginType int    `json:"logintype"`
}

type taskParams struct {
	DeviceName string `json:"deviceName"`
	ADOMName   string `json:"adomName"`
}

type flatuiResponse struct {
	Result []flatuiResult `json:"result"`
}

type flatuiResult struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// Device is one managed device row from the device database.
type Device struct {
	SerialNumber string `json:"sn"`
	Hostname     string `json:"hostname"`
}

// HistoryEntry is one script execution entry from the device task history.
// Content carries the captured console output of the run.
type HistoryEntry struct {
	ScriptName string `json:"script_name"`
	Content    string `json:"content"`
}
