package bot

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/metadatax/mediainfobot/pkg/config"
	"github.com/metadatax/mediainfobot/pkg/contract"
	"github.com/metadatax/mediainfobot/pkg/mediainfo"
	"github.com/metadatax/mediainfobot/pkg/store"
	"github.com/metadatax/mediainfobot/pkg/telegram"
	"github.com/metadatax/mediainfobot/pkg/telegraph"
)

type fakeAPI struct {
	mu sync.Mutex

	updates [][]telegram.Update
	offsets []int64

	sent  []telegram.SendMessage
	edits []telegram.EditMessageText

	getFileErr  error
	downloadErr error
	limits      []int64
}

func (f *fakeAPI) GetMe(_ context.Context) (*telegram.User, error) {
	return &telegram.User{ID: 42, IsBot: true, Username: "MetadataXBot"}, nil
}

func (f *fakeAPI) GetUpdates(ctx context.Context, offset int64, _ time.Duration) ([]telegram.Update, error) {
	f.mu.Lock()
	f.offsets = append(f.offsets, offset)

	if len(f.updates) == 0 {
		f.mu.Unlock()
		// Mimic a long poll held open until shutdown.
		<-ctx.Done()

		return nil, ctx.Err()
	}

	batch := f.updates[0]
	f.updates = f.updates[1:]
	f.mu.Unlock()

	return batch, nil
}

func (f *fakeAPI) SendMessage(_ context.Context, params telegram.SendMessage) (*telegram.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, params)

	return &telegram.Message{
		MessageID: int64(1000 + len(f.sent)),
		Chat:      telegram.Chat{ID: params.ChatID},
	}, nil
}

func (f *fakeAPI) EditMessageText(_ context.Context, params telegram.EditMessageText) (*telegram.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.edits = append(f.edits, params)

	return &telegram.Message{MessageID: params.MessageID, Chat: telegram.Chat{ID: params.ChatID}}, nil
}

func (f *fakeAPI) GetFile(_ context.Context, fileID string) (*telegram.File, error) {
	if f.getFileErr != nil {
		return nil, f.getFileErr
	}

	return &telegram.File{FileID: fileID, FilePath: "documents/file_1.mkv"}, nil
}

func (f *fakeAPI) DownloadFile(_ context.Context, _ string, w io.Writer, limit int64) (int64, error) {
	f.mu.Lock()
	f.limits = append(f.limits, limit)
	f.mu.Unlock()

	if f.downloadErr != nil {
		return 0, f.downloadErr
	}

	n, err := w.Write([]byte("sample-bytes"))

	return int64(n), err
}

func (f *fakeAPI) editTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	texts := make([]string, 0, len(f.edits))
	for _, edit := range f.edits {
		texts = append(texts, edit.Text)
	}

	return texts
}

type fakePublisher struct {
	titles  []string
	content [][]telegraph.Node
	url     string
	err     error
}

func (f *fakePublisher) CreatePage(_ context.Context, title string, content []telegraph.Node) (string, error) {
	f.titles = append(f.titles, title)
	f.content = append(f.content, content)

	if f.err != nil {
		return "", f.err
	}

	return f.url, nil
}

type fakeAnalyzer struct {
	output string
	err    error
	paths  []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)

	return f.output, f.err
}

type fakeStore struct {
	saved  []*store.Report
	latest *store.Report
}

func (f *fakeStore) SaveReport(report *store.Report) *contract.Error {
	f.saved = append(f.saved, report)

	return nil
}

func (f *fakeStore) GetReport(_ int64) (*store.Report, *contract.Error) {
	return nil, contract.NewError(contract.ErrorCodeResourceDoesNotExist, "no report")
}

func (f *fakeStore) LatestReportForFile(_ string) (*store.Report, *contract.Error) {
	return f.latest, nil
}

func (f *fakeStore) SearchReports(_ string, _ int, _ string) (*store.PagedList[*store.Report], *contract.Error) {
	return &store.PagedList[*store.Report]{}, nil
}

const analyzerOutput = `General
Complete name   : sample.mkv
Format          : Matroska

Video
Format          : AVC
Width           : 1 920 pixels
`

func testConfig() *config.Config {
	return &config.Config{
		SampleBytes: 512,
		PollTimeout: time.Second,
		Workers:     2,
	}
}

func mediaMessage() *telegram.Message {
	return &telegram.Message{
		MessageID: 7,
		From:      &telegram.User{ID: 5, FirstName: "Ada"},
		Chat:      telegram.Chat{ID: -100, Type: "private"},
		Document: &telegram.Document{
			FileID:       "file-id",
			FileUniqueID: "unique-id",
			FileName:     "sample.mkv",
			FileSize:     2048,
			MimeType:     "video/x-matroska",
		},
	}
}

func newTestBot(api *fakeAPI, publisher *fakePublisher, analyzer mediainfo.Analyzer, reportStore *fakeStore) *Bot {
	b := New(api, publisher, analyzer, reportStore, testConfig())
	b.me = &telegram.User{ID: 42, IsBot: true, Username: "MetadataXBot"}

	return b
}

func TestProcessPublishesReport(t *testing.T) {
	api := &fakeAPI{}
	publisher := &fakePublisher{url: "https://graph.org/Media-Info-01-01"}
	analyzer := &fakeAnalyzer{output: analyzerOutput}
	reportStore := &fakeStore{}

	b := newTestBot(api, publisher, analyzer, reportStore)
	b.process(context.Background(), mediaMessage())

	require.Len(t, api.sent, 1)
	require.Equal(t, "⏳ _Processing media info..._", api.sent[0].Text)
	require.Equal(t, int64(7), api.sent[0].ReplyToMessageID)

	require.Equal(t, []string{
		"🔍 _Analyzing media info..._",
		"📝 _Generating report..._",
		"📊 *Media Information*\n\n" +
			"📁 *File:* `sample.mkv`\n" +
			"💾 *Size:* `2.00 KB`\n\n" +
			"👉 *Detailed info:* https://graph.org/Media-Info-01-01",
	}, api.editTexts())

	final := api.edits[len(api.edits)-1]
	require.NotNil(t, final.ReplyMarkup)
	require.Equal(t, "📋 Detailed Report", final.ReplyMarkup.InlineKeyboard[0][0].Text)
	require.Equal(t, publisher.url, final.ReplyMarkup.InlineKeyboard[0][0].URL)

	require.Equal(t, []int64{512}, api.limits)
	require.Equal(t, []string{"Media Info"}, publisher.titles)
	require.Len(t, analyzer.paths, 1)

	require.Len(t, reportStore.saved, 1)
	saved := reportStore.saved[0]
	require.Equal(t, "unique-id", saved.FileUniqueID)
	require.Equal(t, "sample.mkv", saved.FileName)
	require.Equal(t, "document", saved.MediaType)
	require.Equal(t, publisher.url, saved.TelegraphURL)
	require.NotEmpty(t, saved.Properties)
	require.Equal(t, "General", saved.Properties[0].Section)
	require.Equal(t, "complete_name", saved.Properties[0].Key)
}

func TestProcessReusesStoredReport(t *testing.T) {
	api := &fakeAPI{}
	publisher := &fakePublisher{url: "https://graph.org/should-not-be-used"}
	analyzer := &fakeAnalyzer{output: analyzerOutput}
	reportStore := &fakeStore{
		latest: &store.Report{
			FileUniqueID: "unique-id",
			TelegraphURL: "https://graph.org/Media-Info-stored",
		},
	}

	b := newTestBot(api, publisher, analyzer, reportStore)
	b.process(context.Background(), mediaMessage())

	require.Empty(t, analyzer.paths)
	require.Empty(t, publisher.titles)
	require.Empty(t, reportStore.saved)

	texts := api.editTexts()
	require.Len(t, texts, 1)
	require.Contains(t, texts[0], "https://graph.org/Media-Info-stored")
}

func TestProcessFailures(t *testing.T) {
	scenarios := []struct {
		name     string
		api      *fakeAPI
		analyzer *fakeAnalyzer
		pubErr   error
		expected string
	}{
		{
			name:     "download failure",
			api:      &fakeAPI{getFileErr: io.ErrUnexpectedEOF},
			analyzer: &fakeAnalyzer{output: analyzerOutput},
			expected: "❌ _Failed to download media sample!_",
		},
		{
			name:     "analyzer error",
			api:      &fakeAPI{},
			analyzer: &fakeAnalyzer{err: io.ErrUnexpectedEOF},
			expected: "❌ _Failed to analyze media!_",
		},
		{
			name:     "empty analyzer output",
			api:      &fakeAPI{},
			analyzer: &fakeAnalyzer{output: "  \n"},
			expected: "❌ _Failed to analyze media!_",
		},
		{
			name:     "publish failure",
			api:      &fakeAPI{},
			analyzer: &fakeAnalyzer{output: analyzerOutput},
			pubErr:   io.ErrUnexpectedEOF,
			expected: "❌ _Failed to generate report!_",
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			publisher := &fakePublisher{url: "https://graph.org/x", err: scenario.pubErr}
			reportStore := &fakeStore{}

			b := newTestBot(scenario.api, publisher, scenario.analyzer, reportStore)
			b.process(context.Background(), mediaMessage())

			texts := scenario.api.editTexts()
			require.NotEmpty(t, texts)
			require.Equal(t, scenario.expected, texts[len(texts)-1])
			require.Empty(t, reportStore.saved)
		})
	}
}

func TestHandleMediaInfoWithoutReply(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakePublisher{}, &fakeAnalyzer{}, &fakeStore{})

	b.handle(context.Background(), &telegram.Message{
		MessageID: 3,
		Chat:      telegram.Chat{ID: 9, Type: "supergroup"},
		Text:      "/mi",
	})

	require.Len(t, api.sent, 1)
	require.Equal(t, "❌ _Please reply to a media file with /mediainfo or /mi_", api.sent[0].Text)
	require.Empty(t, api.edits)
}

func TestHandleMediaInfoReply(t *testing.T) {
	api := &fakeAPI{}
	publisher := &fakePublisher{url: "https://graph.org/Media-Info-02"}
	analyzer := &fakeAnalyzer{output: analyzerOutput}

	b := newTestBot(api, publisher, analyzer, &fakeStore{})

	replied := mediaMessage()
	b.handle(context.Background(), &telegram.Message{
		MessageID:      8,
		Chat:           replied.Chat,
		Text:           "/mediainfo@MetadataXBot",
		ReplyToMessage: replied,
	})

	require.Len(t, analyzer.paths, 1)
	require.Len(t, api.sent, 1)
	require.Equal(t, replied.MessageID, api.sent[0].ReplyToMessageID)
}

func TestHandleStart(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakePublisher{}, &fakeAnalyzer{}, &fakeStore{})

	b.handle(context.Background(), &telegram.Message{
		MessageID: 1,
		From:      &telegram.User{ID: 5, FirstName: "Ada"},
		Chat:      telegram.Chat{ID: 5, Type: "private"},
		Text:      "/start",
	})

	require.Len(t, api.sent, 1)
	greeting := api.sent[0]
	require.Contains(t, greeting.Text, "👋 Hi [Ada](tg://user?id=5)!")
	require.Contains(t, greeting.Text, "reply to a media with /mediainfo or /mi")
	require.NotNil(t, greeting.ReplyMarkup)

	button := greeting.ReplyMarkup.InlineKeyboard[0][0]
	require.Equal(t, "➕ Add me in your group", button.Text)
	require.Equal(t, "https://t.me/MetadataXBot?startgroup=botsync&admin=manage_chat", button.URL)
}

func TestHandleIgnoresOtherBotCommand(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakePublisher{}, &fakeAnalyzer{output: analyzerOutput}, &fakeStore{})

	b.handle(context.Background(), &telegram.Message{
		MessageID:      8,
		Chat:           telegram.Chat{ID: 9, Type: "supergroup"},
		Text:           "/mediainfo@SomeOtherBot",
		ReplyToMessage: mediaMessage(),
	})

	require.Empty(t, api.sent)
	require.Empty(t, api.edits)
}

type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(context.Context, string) (string, error) {
	panic("mediainfo went sideways")
}

func TestProcessRecoversFromPanic(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakePublisher{}, panicAnalyzer{}, &fakeStore{})

	b.process(context.Background(), mediaMessage())

	texts := api.editTexts()
	require.NotEmpty(t, texts)
	require.Equal(
		t,
		"❌ _An error occurred while processing the media!_\nPlease try again later.",
		texts[len(texts)-1],
	)
}

func TestHandleIgnoresGroupMedia(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, &fakePublisher{}, &fakeAnalyzer{output: analyzerOutput}, &fakeStore{})

	message := mediaMessage()
	message.Chat.Type = "supergroup"

	b.handle(context.Background(), message)

	require.Empty(t, api.sent)
}

func TestRunAdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	api := &fakeAPI{
		updates: [][]telegram.Update{
			{
				{UpdateID: 10, Message: &telegram.Message{
					MessageID: 1,
					From:      &telegram.User{ID: 5, FirstName: "Ada"},
					Chat:      telegram.Chat{ID: 5, Type: "private"},
					Text:      "/start",
				}},
				{UpdateID: 11},
			},
		},
	}

	b := New(api, &fakePublisher{}, &fakeAnalyzer{}, &fakeStore{}, testConfig())

	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()

		return len(api.offsets) >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Equal(t, int64(0), api.offsets[0])
	require.Equal(t, int64(12), api.offsets[1])
	require.Len(t, api.sent, 1)
}
