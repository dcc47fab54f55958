package xmlrpc

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/http"
	"strconv"

	"github.com/mdzio/go-logging"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// max. size of a valid request, if not specified: 1 MB
const requestSizeLimit = 1024 * 1024

var svrLog = logging.Get("xmlrpc-server")

// Handler implements a http.Handler which can handle XML-RPC requests. Remote
// calls are dispatched to the Dispatcher.
type Handler struct {
	RequestSizeLimit int64
	Dispatcher
}

func (h *Handler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	svrLog.Tracef("Request received from %s, URI %s", req.RemoteAddr, req.RequestURI)
	if req.Method != http.MethodPost {
		http.Error(resp, "Only POST is supported", http.StatusMethodNotAllowed)
		return
	}

	// read request
	limit := h.RequestSizeLimit
	if limit == 0 {
		limit = requestSizeLimit
	}
	reqBuf, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, limit))
	if err != nil {
		svrLog.Errorf("Reading of request failed from %s: %v", req.RemoteAddr, err)
		http.Error(resp, "Reading of request failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if svrLog.TraceEnabled() {
		// attention: log message is probably ISO8859-1 encoded!
		svrLog.Tracef("Request XML: %s", string(reqBuf))
	}

	// decode request from xml
	methodCall := &MethodCall{}
	dec := xml.NewDecoder(bytes.NewReader(reqBuf))
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(methodCall); err != nil {
		svrLog.Errorf("Decoding of request from %s failed: %v", req.RemoteAddr, err)
		http.Error(resp, "Decoding of request failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	// convert Params to Array
	data := []*Value{}
	if methodCall.Params != nil {
		for _, p := range methodCall.Params.Param {
			data = append(data, p.Value)
		}
	}
	args := &Value{Array: &Array{Data: data}}

	// dispatch call
	svrLog.Debugf("Call of method %s received from %s", methodCall.MethodName, req.RemoteAddr)
	res, err := h.Dispatch(methodCall.MethodName, args)
	var methodResponse *MethodResponse
	if err != nil {
		svrLog.Warningf("Sending error response to %s: %v", req.RemoteAddr, err)
		methodResponse = newFaultResponse(err)
	} else {
		methodResponse = newMethodResponse(res)
	}

	// use ISO8859-1 character encoding for response
	var respBuf bytes.Buffer
	respWriter := charmap.ISO8859_1.NewEncoder().Writer(&respBuf)
	_, err = respWriter.Write([]byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n"))
	if err == nil {
		err = xml.NewEncoder(respWriter).Encode(methodResponse)
	}
	if err != nil {
		svrLog.Errorf("Encoding of response for %s failed: %v", req.RemoteAddr, err)
		http.Error(resp, "Encoding of response failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if svrLog.TraceEnabled() {
		// attention: log message is ISO8859-1 encoded!
		svrLog.Tracef("Response XML: %s", respBuf.String())
	}

	// send response
	resp.Header().Set("Content-Type", "text/xml")
	resp.Header().Set("Content-Length", strconv.Itoa(respBuf.Len()))
	if _, err := resp.Write(respBuf.Bytes()); err != nil {
		svrLog.Warningf("Sending of response for %s failed: %v", req.RemoteAddr, err)
	}
}
