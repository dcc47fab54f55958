package service

import (
	"fmt"

	"github.com/mdzio/go-logging"

	"github.com/mdzio/go-gbwmi/xmlrpc"
)

var clnLog = logging.Get("attr-client")

// Client provides access to a remote attribute service.
type Client struct {
	Name string
	xmlrpc.Caller
}

// ListAttributes retrieves the descriptions of all attributes.
func (c *Client) ListAttributes() ([]*AttributeDescription, error) {
	clnLog.Debugf("Calling method listAttributes on %s", c.Name)
	v, err := c.Call("listAttributes", xmlrpc.Values{})
	if err != nil {
		return nil, err
	}
	q := xmlrpc.Q(v)
	var r []*AttributeDescription
	for _, e := range q.Slice() {
		a := &AttributeDescription{}
		a.ReadFrom(e)
		r = append(r, a)
	}
	if q.Err() != nil {
		return nil, fmt.Errorf("Invalid XML response for listAttributes: %w", q.Err())
	}
	return r, nil
}

// GetValue reads an attribute as decimal string.
func (c *Client) GetValue(group, name string) (string, error) {
	clnLog.Debugf("Calling method getValue(%s, %s) on %s", group, name, c.Name)
	v, err := c.Call("getValue", xmlrpc.Values{xmlrpc.NewString(group), xmlrpc.NewString(name)})
	if err != nil {
		return "", err
	}
	q := xmlrpc.Q(v)
	s := q.String()
	if q.Err() != nil {
		return "", fmt.Errorf("Invalid XML response for getValue: %w", q.Err())
	}
	return s, nil
}

// SetValue writes the decimal text to an attribute.
func (c *Client) SetValue(group, name, text string) error {
	clnLog.Debugf("Calling method setValue(%s, %s, %s) on %s", group, name, text, c.Name)
	_, err := c.Call("setValue", xmlrpc.Values{
		xmlrpc.NewString(group),
		xmlrpc.NewString(name),
		xmlrpc.NewString(text),
	})
	return err
}

// GetParamset reads all readable attributes of a group.
func (c *Client) GetParamset(group string) (map[string]string, error) {
	clnLog.Debugf("Calling method getParamset(%s) on %s", group, c.Name)
	v, err := c.Call("getParamset", xmlrpc.Values{xmlrpc.NewString(group)})
	if err != nil {
		return nil, err
	}
	q := xmlrpc.Q(v)
	r := make(map[string]string)
	for n, e := range q.Map() {
		r[n] = e.String()
	}
	if q.Err() != nil {
		return nil, fmt.Errorf("Invalid XML response for getParamset: %w", q.Err())
	}
	return r, nil
}

// Ping checks the connection to the service.
func (c *Client) Ping(callerID string) (bool, error) {
	clnLog.Debugf("Calling method ping(%s) on %s", callerID, c.Name)
	v, err := c.Call("ping", xmlrpc.Values{xmlrpc.NewString(callerID)})
	if err != nil {
		return false, err
	}
	q := xmlrpc.Q(v)
	b := q.Bool()
	if q.Err() != nil {
		return false, fmt.Errorf("Invalid XML response for ping: %w", q.Err())
	}
	return b, nil
}
