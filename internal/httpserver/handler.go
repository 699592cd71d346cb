package httpserver

import (
	"fmt"
	"os"
	"time"

	"github.com/joeycumines/plainhttpd/internal/producer"
)

// serverBanner is the Server: header value.
const serverBanner = "Plain HTTP Server 2019.0.1"

// dateHeaderValue formats a Date: header value in the same local,
// non-RFC-1123 shape the reference server writes via
// str(datetime.datetime.now()).
func dateHeaderValue(now time.Time) string {
	return now.Format("2006-01-02 15:04:05.000000")
}

func baseHeaderSequence(now time.Time) producer.Sequence {
	lines := []string{
		fmt.Sprintf("Date: %s\r\n", dateHeaderValue(now)),
		fmt.Sprintf("Server: %s\r\n", serverBanner),
		"Connection: close\r\n",
	}
	i := 0
	return func() (producer.Fragment, bool) {
		if i >= len(lines) {
			return producer.Fragment{}, false
		}
		f := producer.StringFragment(lines[i])
		i++
		return f, true
	}
}

func errorHeaderSequence() producer.Sequence {
	done := false
	return func() (producer.Fragment, bool) {
		if done {
			return producer.Fragment{}, false
		}
		done = true
		return producer.StringFragment("Content-Type: text/plain\r\n"), true
	}
}

func successHeaderSequence(size int64, mimeType string) producer.Sequence {
	lines := []string{
		fmt.Sprintf("Content-Length: %d\r\n", size),
		fmt.Sprintf("Content-Type: %s\r\n", mimeType),
	}
	i := 0
	return func() (producer.Fragment, bool) {
		if i >= len(lines) {
			return producer.Fragment{}, false
		}
		f := producer.StringFragment(lines[i])
		i++
		return f, true
	}
}

// responseSequence assembles the status line, base headers, handler-
// specific headers, the blank line, the body, and a close-after-drain
// sentinel into one flat top-level sequence -- the status line is
// always rendered "OK" regardless of code, per the wire protocol.
func responseSequence(code int, specific producer.Sequence, body producer.Fragment, now time.Time) producer.Sequence {
	steps := []producer.Fragment{
		producer.StringFragment(fmt.Sprintf("HTTP/1.0 %d OK\r\n", code)),
		producer.SequenceFragment(baseHeaderSequence(now)),
		producer.SequenceFragment(specific),
		producer.StringFragment("\r\n"),
		body,
		producer.CloseFragment(),
	}
	i := 0
	return func() (producer.Fragment, bool) {
		if i >= len(steps) {
			return producer.Fragment{}, false
		}
		f := steps[i]
		i++
		return f, true
	}
}

// response is a fully-built reply, ready to be handed to a
// GeneratorProducer and enqueued on a connection.
type response struct {
	sequence producer.Sequence
	code     int
}

func errorResponse(rc *requestContext, now time.Time) response {
	specific := errorHeaderSequence()
	body := producer.StringFragment(rc.ErrorMsg)
	return response{sequence: responseSequence(rc.Code, specific, body, now), code: rc.Code}
}

func buildGetResponse(root, rawTarget string, now time.Time) response {
	rc := newRequestContext(root, rawTarget)
	if !rc.verifyGet() {
		return errorResponse(rc, now)
	}

	f, err := os.Open(rc.Target)
	if err != nil {
		rc.Code = 404
		rc.ErrorMsg = fmt.Sprintf("File %s not found \r\n", rc.Target)
		return errorResponse(rc, now)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		rc.Code = 404
		rc.ErrorMsg = fmt.Sprintf("File %s not found \r\n", rc.Target)
		return errorResponse(rc, now)
	}

	specific := successHeaderSequence(info.Size(), guessMIME(rc.Target))
	body := producer.ProducerFragment(producer.NewFileProducer(f))
	return response{sequence: responseSequence(rc.Code, specific, body, now), code: rc.Code}
}

func buildHeadResponse(root, rawTarget string, now time.Time) response {
	rc := newRequestContext(root, rawTarget)
	if !rc.verifyGet() {
		return errorResponse(rc, now)
	}

	info, err := os.Stat(rc.Target)
	if err != nil {
		rc.Code = 404
		rc.ErrorMsg = fmt.Sprintf("File %s not found \r\n", rc.Target)
		return errorResponse(rc, now)
	}

	specific := successHeaderSequence(info.Size(), guessMIME(rc.Target))
	body := producer.StringFragment("")
	return response{sequence: responseSequence(rc.Code, specific, body, now), code: rc.Code}
}

func buildMethodNotAllowedResponse(method string, now time.Time) response {
	msg := fmt.Sprintf("%s method is not implemented", method)
	specific := errorHeaderSequence()
	body := producer.StringFragment(msg)
	return response{sequence: responseSequence(405, specific, body, now), code: 405}
}

// dispatchRequest builds the response sequence for one parsed request
// line. GET and HEAD are the only implemented methods; anything else
// is a 405.
func dispatchRequest(root, method, target string, now time.Time) response {
	switch method {
	case "GET":
		return buildGetResponse(root, target, now)
	case "HEAD":
		return buildHeadResponse(root, target, now)
	default:
		return buildMethodNotAllowedResponse(method, now)
	}
}
