package mcp_test

import (
	"context"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/cassette/api/mcp"
	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/logger"
	"github.com/papercomputeco/cassette/pkg/safety"
	"github.com/papercomputeco/cassette/pkg/storage/inmemory"
	"github.com/papercomputeco/cassette/pkg/tools"
)

func testToolbox() *tools.Toolbox {
	first := func(int) int { return 0 }
	return &tools.Toolbox{
		Clock: func() time.Time {
			return time.Date(2024, time.January, 2, 15, 4, 5, 0, time.Local)
		},
		Jokes:   tools.NewJokePicker(first),
		Weather: tools.NewWeather(tools.WeatherConfig{Intn: first, Logger: logger.Nop()}),
	}
}

// connect runs the server over an in-memory transport and returns a client
// session bound to it.
func connect(ctx context.Context, server *mcp.Server) *gomcp.ClientSession {
	serverTransport, clientTransport := gomcp.NewInMemoryTransports()

	_, err := server.MCPServer().Connect(ctx, serverTransport, nil)
	Expect(err).NotTo(HaveOccurred())

	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(session.Close)

	return session
}

func resultText(result *gomcp.CallToolResult) string {
	Expect(result.Content).NotTo(BeEmpty())
	text, ok := result.Content[0].(*gomcp.TextContent)
	Expect(ok).To(BeTrue())
	return text.Text
}

var _ = Describe("MCP Server", func() {
	var (
		server  *mcp.Server
		toolbox *tools.Toolbox
	)

	BeforeEach(func() {
		toolbox = testToolbox()

		var err error
		server, err = mcp.NewServer(mcp.Config{
			Tools:  toolbox,
			Logger: logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewServer", func() {
		It("returns an error when the toolbox is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Logger: logger.Nop()})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("toolbox is required"))
		})

		It("returns an error when logger is nil", func() {
			_, err := mcp.NewServer(mcp.Config{Tools: toolbox})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("logger is required"))
		})

		It("builds an empty server in noop mode", func() {
			s, err := mcp.NewServer(mcp.Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Handler()).NotTo(BeNil())
		})

		It("exposes an HTTP handler", func() {
			Expect(server.Handler()).NotTo(BeNil())
		})
	})

	Describe("tools", func() {
		var (
			ctx     context.Context
			session *gomcp.ClientSession
		)

		BeforeEach(func() {
			ctx = context.Background()
			session = connect(ctx, server)
		})

		It("lists the four tools", func() {
			res, err := session.ListTools(ctx, &gomcp.ListToolsParams{})
			Expect(err).NotTo(HaveOccurred())

			var names []string
			for _, t := range res.Tools {
				names = append(names, t.Name)
				Expect(t.Description).NotTo(BeEmpty())
			}
			Expect(names).To(ConsistOf("time", "calc", "joke", "weather"))
		})

		It("returns the local time", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "time",
				Arguments: map[string]any{},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(resultText(res)).To(Equal("1/2/2024, 3:04:05 PM"))
		})

		It("evaluates an expression", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "calc",
				Arguments: map[string]any{"expression": "12 * (3 + 4)"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(resultText(res)).To(Equal("84"))
		})

		It("reports an unsafe expression as a tool error", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "calc",
				Arguments: map[string]any{"expression": "2 ** 8"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(resultText(res)).To(Equal(assistant.CalcApology))
		})

		It("reports a missing expression as a tool error", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "calc",
				Arguments: map[string]any{"expression": ""},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(resultText(res)).To(ContainSubstring("expression is required"))
		})

		It("tells a joke", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "joke",
				Arguments: map[string]any{},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resultText(res)).To(Equal(tools.Jokes[0]))
		})

		It("returns simulated weather for a city", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "weather",
				Arguments: map[string]any{"city": "Paris"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(resultText(res)).To(Equal("Simulated weather for Paris: 22°C, sunny with a light breeze."))
		})

		It("returns the usage hint when the city is blank", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "weather",
				Arguments: map[string]any{"city": "  "},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(resultText(res)).To(Equal(tools.WeatherUsage))
		})
	})

	Describe("ask tool", func() {
		var (
			ctx      context.Context
			sessions *assistant.Sessions
			session  *gomcp.ClientSession
		)

		BeforeEach(func() {
			ctx = context.Background()

			a, err := assistant.New(assistant.Config{
				Tools:  toolbox,
				Safety: safety.NewFilter(safety.DefaultKeywords),
				Logger: logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			sessions, err = assistant.NewSessions(a, inmemory.NewDriver())
			Expect(err).NotTo(HaveOccurred())

			server, err = mcp.NewServer(mcp.Config{
				Tools:    toolbox,
				Sessions: sessions,
				Logger:   logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			session = connect(ctx, server)
		})

		It("is listed alongside the tools", func() {
			res, err := session.ListTools(ctx, &gomcp.ListToolsParams{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Tools).To(HaveLen(5))
		})

		It("routes the message through the default session", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "ask",
				Arguments: map[string]any{"message": "calc 2+2"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeFalse())
			Expect(resultText(res)).To(Equal("Result: 4"))
			Expect(sessions.Default().Log().Len()).To(BeNumerically(">", 1))
		})

		It("applies the safety filter", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "ask",
				Arguments: map[string]any{"message": "what is my password"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resultText(res)).To(Equal(safety.BlockReason("password")))
		})

		It("reports an unknown session", func() {
			res, err := session.CallTool(ctx, &gomcp.CallToolParams{
				Name:      "ask",
				Arguments: map[string]any{"message": "hi", "session_id": "nope"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(resultText(res)).To(ContainSubstring(`unknown session "nope"`))
		})
	})
})
