package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("command rpcpost", func() {
	var (
		server *httptest.Server
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	)

	BeforeEach(func() {
		server = httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				login, password, ok := r.BasicAuth()
				if r.URL.Path == "/private" && (!ok || login != "admin" || password != "secret") {
					w.Header().Set("WWW-Authenticate", `Basic realm="Transmission"`)
					w.WriteHeader(http.StatusUnauthorized)
					return
				}

				if r.URL.Path == "/missing" {
					w.WriteHeader(http.StatusNotFound)
					return
				}

				payload, _ := io.ReadAll(r.Body)
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"result":"success","arguments":{"version":"4.0.5","request":` + string(payload) + `,"session":"` + r.Header.Get("X-Transmission-Session-Id") + `"}}`))
			}),
		)

		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	AfterEach(func() {
		server.Close()
	})

	run := func(stdin string, args ...string) error {
		cmd := newRootCommand()
		cmd.SetArgs(args)
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(stdout)
		cmd.SetErr(stderr)
		return cmd.ExecuteContext(context.Background())
	}

	It("prints the response body", func() {
		err := run("", "--url", server.URL+"/rpc", `{"method":"session-get"}`)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stdout.String()).To(Equal(
			`{"result":"success","arguments":{"version":"4.0.5","request":{"method":"session-get"},"session":""}}` + "\n",
		))
	})

	It("reads the payload from stdin", func() {
		err := run(`{"method":"torrent-get"}`, "--url", server.URL+"/rpc", "--field", "arguments.request.method", "-")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stdout.String()).To(Equal("torrent-get\n"))
	})

	It("sends additional headers", func() {
		err := run("", "--url", server.URL+"/rpc", "-H", "X-Transmission-Session-Id=abc123", "--field", "arguments.session", `{}`)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stdout.String()).To(Equal("abc123\n"))
	})

	It("pretty-prints the response", func() {
		err := run("", "--url", server.URL+"/rpc", "--field", "arguments.request", "--pretty", `{"a":1}`)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stdout.String()).To(Equal("{\n  \"a\": 1\n}\n"))
	})

	It("answers authentication challenges using the configured credentials", func() {
		err := run("", "--url", server.URL+"/private", "--user", "admin", "--password", "secret", "--field", "result", `{}`)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stdout.String()).To(Equal("success\n"))
	})

	It("writes spans to stderr when tracing is enabled", func() {
		err := run("", "--url", server.URL+"/rpc", "--trace", `{}`)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(stderr.String()).To(ContainSubstring(`"Name": "rpcpost/post"`))
	})

	It("returns the transport error if the server responds with an HTTP error", func() {
		err := run("", "--url", server.URL+"/missing", `{}`)
		Expect(err).To(MatchError(server.URL + "/missing: [404] Not Found"))
		Expect(stdout.String()).To(BeEmpty())
		Expect(stderr.String()).To(BeEmpty())
	})

	It("logs exchanges to stderr when a log level is given", func() {
		err := run("", "--url", server.URL+"/missing", "--log-level", "error", `{}`)
		Expect(err).Should(HaveOccurred())
		Expect(stderr.String()).To(ContainSubstring(`"msg":"post ` + server.URL + `/missing"`))
		Expect(stderr.String()).To(ContainSubstring(`"status_code":404`))
	})

	It("returns an error if the payload is not JSON", func() {
		err := run("", "--url", server.URL+"/rpc", `{`)
		Expect(err).To(MatchError("payload is not valid JSON"))
	})

	It("returns an error if the field does not exist", func() {
		err := run("", "--url", server.URL+"/rpc", "--field", "arguments.nope", `{}`)
		Expect(err).To(MatchError(`response does not contain "arguments.nope"`))
	})

	It("returns an error if no URL is configured", func() {
		err := run("", `{}`)
		Expect(err).To(MatchError(ContainSubstring("invalid config")))
	})
})
