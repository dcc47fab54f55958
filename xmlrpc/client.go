package xmlrpc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mdzio/go-logging"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// max. size of a valid response, if not specified: 1 MB
const responseSizeLimit = 1024 * 1024

// default timeout of a call
const defaultTimeout = 30 * time.Second

// Caller is an interface for calling XML-RPC functions.
type Caller interface {
	Call(method string, params Values) (*Value, error)
}

var clnLog = logging.Get("xmlrpc-client")

// Client provides access to an XML-RPC server.
type Client struct {
	Addr              string
	ResponseSizeLimit int64
	// Timeout of a call, defaults to 30 seconds.
	Timeout time.Duration
}

// Call executes a remote procedure call. Call implements Caller.
func (c *Client) Call(method string, params Values) (*Value, error) {
	clnLog.Tracef("Calling method %s on %s", method, c.Addr)

	// build XML object tree
	ps := make([]*Param, len(params))
	for i, p := range params {
		ps[i] = &Param{p}
	}
	methodCall := &MethodCall{
		MethodName: method,
		Params:     &Params{ps},
	}

	// use ISO8859-1 character encoding for request
	var reqBuf bytes.Buffer
	reqWriter := charmap.ISO8859_1.NewEncoder().Writer(&reqBuf)
	if _, err := reqWriter.Write([]byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n")); err != nil {
		return nil, fmt.Errorf("Encoding of request for %s failed: %w", c.Addr, err)
	}
	enc := xml.NewEncoder(reqWriter)
	if err := enc.Encode(methodCall); err != nil {
		return nil, fmt.Errorf("Encoding of request for %s failed: %w", c.Addr, err)
	}
	if clnLog.TraceEnabled() {
		// attention: log message is ISO8859-1 encoded!
		clnLog.Tracef("Request XML: %s", reqBuf.String())
	}

	// http post
	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}
	httpResp, err := httpClient.Post(c.Addr, "text/xml", bytes.NewReader(reqBuf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed on %s: %w", c.Addr, err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP request failed on %s with code: %s", c.Addr, httpResp.Status)
	}

	// read response
	limit := c.ResponseSizeLimit
	if limit == 0 {
		limit = responseSizeLimit
	}
	respBuf, err := io.ReadAll(io.LimitReader(httpResp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("Reading of response failed from %s: %w", c.Addr, err)
	}
	if clnLog.TraceEnabled() {
		// attention: log message is probably ISO8859-1 encoded!
		clnLog.Tracef("Response XML: %s", string(respBuf))
	}

	// decode response from xml
	resp := &MethodResponse{}
	dec := xml.NewDecoder(bytes.NewReader(respBuf))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(resp); err != nil {
		return nil, fmt.Errorf("Decoding of response from %s failed: %w", c.Addr, err)
	}

	// check fault
	if resp.Fault != nil {
		e := Q(resp.Fault)
		faultCode := e.Key("faultCode").Int()
		faultString := e.Key("faultString").String()
		if e.Err() != nil {
			return nil, fmt.Errorf("Invalid XML-RPC fault response: %w", e.Err())
		}
		return nil, &MethodError{faultCode, faultString}
	}

	// check response
	if resp.Params == nil || len(resp.Params.Param) != 1 {
		return nil, fmt.Errorf("Invalid or no parameters in response from %s", c.Addr)
	}
	return resp.Params.Param[0].Value, nil
}
