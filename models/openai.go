package models

type ResponsesRequest struct {
	Model       string          `json:"model"`
	Input       []ResponseInput `json:"input"`
	Temperature float64         `json:"temperature"`
}

type ResponseInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponsesResponse struct {
	ID         string           `json:"id"`
	Output     []ResponseOutput `json:"output"`
	OutputText string           `json:"output_text"`
}

type ResponseOutput struct {
	Type    string            `json:"type"`
	Role    string            `json:"role"`
	Content []ResponseContent `json:"content"`
}

type ResponseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
