package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrCompanyInUse = errors.New("company is still referenced")

// FunctionError is a {"success":false,"error":...} reply of a function endpoint.
type FunctionError struct {
	Status  int
	Message string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function: %d: %s", e.Status, e.Message)
}

type CreateUserInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	AdminCode    string `json:"admin_code,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
	CompanyID    *int64 `json:"company_id,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	PictureURL   string `json:"picture_url,omitempty"`

	// IdempotencyKey is sent as the Idempotency-Key header when set.
	IdempotencyKey string `json:"-"`
}

type CreateUserResult struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type DeleteRecordInput struct {
	RecordID   int64  `json:"recordId"`
	RecordType string `json:"recordType"`
	AuthID     string `json:"authId,omitempty"`
}

type functionReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (*CreateUserResult, error) {
	headers := http.Header{}
	if input.IdempotencyKey != "" {
		headers.Set("Idempotency-Key", input.IdempotencyKey)
	}
	reply, err := c.callFunction(ctx, "create-user", input, headers)
	if err != nil {
		return nil, err
	}
	return &CreateUserResult{UserID: reply.UserID, Message: reply.Message}, nil
}

// DeleteRecord removes a role record or company and, for user types, the
// profile and identity behind it. It returns the server message.
func (c *Client) DeleteRecord(ctx context.Context, input DeleteRecordInput) (string, error) {
	reply, err := c.callFunction(ctx, "delete-user", input, nil)
	if err != nil {
		return "", err
	}
	return reply.Message, nil
}

// DeleteCompanyChecked refuses to call the delete function while employees
// or orders still point at the company.
func (c *Client) DeleteCompanyChecked(ctx context.Context, id int64) (string, error) {
	refs, err := c.Companies().References(ctx, id)
	if err != nil {
		return "", err
	}
	if refs.Employees > 0 || refs.Orders > 0 {
		return "", fmt.Errorf("%w: %d employees, %d orders", ErrCompanyInUse, refs.Employees, refs.Orders)
	}
	return c.DeleteRecord(ctx, DeleteRecordInput{RecordID: id, RecordType: "company"})
}

func (c *Client) callFunction(ctx context.Context, name string, payload any, headers http.Header) (*functionReply, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/functions/v1/"+name, nil, bytes.NewReader(raw), true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var reply functionReply
	if err := json.Unmarshal(body, &reply); err != nil {
		// not a function reply, e.g. a gateway error page
		resp.Body = io.NopCloser(bytes.NewReader(body))
		if checkErr := checkResponse(resp); checkErr != nil {
			return nil, checkErr
		}
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if resp.StatusCode >= 300 || !reply.Success {
		if reply.Error == "" {
			resp.Body = io.NopCloser(bytes.NewReader(body))
			if checkErr := checkResponse(resp); checkErr != nil {
				return nil, checkErr
			}
		}
		c.log.Debug("client: function failed", "function", name, "status", resp.StatusCode)
		return nil, &FunctionError{Status: resp.StatusCode, Message: reply.Error}
	}
	return &reply, nil
}
