package discover_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/discover"
	"github.com/Venipa/taiga/internal/logging"
	"github.com/Venipa/taiga/internal/service"
)

type memLibrary struct {
	mu      sync.Mutex
	next    anime.ID
	order   []anime.ID
	items   map[anime.ID]*anime.Item
	saves   int
	inserts int
	updates int
	// failTitles makes Insert and UpdateExisting fail for these titles.
	failTitles map[string]bool
}

func newMemLibrary() *memLibrary {
	return &memLibrary{items: make(map[anime.ID]*anime.Item)}
}

func cloneItem(item *anime.Item) *anime.Item {
	out := *item
	out.IDs = maps.Clone(item.IDs)
	out.Producers = slices.Clone(item.Producers)
	out.Genres = slices.Clone(item.Genres)
	if item.Synopsis != nil {
		text := *item.Synopsis
		out.Synopsis = &text
	}
	return &out
}

func (l *memLibrary) FindByExternalID(_ context.Context, externalID string, svc anime.ServiceID) (anime.ID, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range l.order {
		if l.items[id].IDs[svc] == externalID {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (l *memLibrary) FindByID(_ context.Context, id anime.ID) (*anime.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(item), nil
}

func (l *memLibrary) Insert(_ context.Context, item *anime.Item) (anime.ID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failTitles[item.Title] {
		return 0, errors.New("disk full")
	}
	l.next++
	stored := cloneItem(item)
	stored.ID = l.next
	l.items[stored.ID] = stored
	l.order = append(l.order, stored.ID)
	l.inserts++
	return stored.ID, nil
}

func (l *memLibrary) UpdateExisting(_ context.Context, id anime.ID, item *anime.Item) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failTitles[item.Title] {
		return errors.New("disk full")
	}
	if _, ok := l.items[id]; !ok {
		return fmt.Errorf("record %d missing", id)
	}
	stored := cloneItem(item)
	stored.ID = id
	l.items[id] = stored
	l.updates++
	return nil
}

func (l *memLibrary) Save(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saves++
	return nil
}

func (l *memLibrary) All(context.Context) ([]*anime.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*anime.Item, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, cloneItem(l.items[id]))
	}
	return out, nil
}

func (l *memLibrary) remove(id anime.ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.items, id)
	l.order = slices.DeleteFunc(l.order, func(other anime.ID) bool { return other == id })
}

func (l *memLibrary) get(t *testing.T, id anime.ID) *anime.Item {
	t.Helper()
	item, _ := l.FindByID(context.Background(), id)
	if item == nil {
		t.Fatalf("record %d missing", id)
	}
	return item
}

type memSource map[string]string

func (s memSource) ReadLocal(name string) ([]byte, error) {
	data, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", name, fs.ErrNotExist)
	}
	return []byte(data), nil
}

type recordingDispatcher struct {
	urls []string
}

func (d *recordingDispatcher) Enqueue(url string) { d.urls = append(d.urls, url) }

type recordingNotifier struct {
	statuses []string
	errors   []string
	// queued tracks how many downloads were enqueued when each status arrived.
	dispatcher *recordingDispatcher
	queued     []int
}

func (n *recordingNotifier) ReportStatus(text string) {
	n.statuses = append(n.statuses, text)
	if n.dispatcher != nil {
		n.queued = append(n.queued, len(n.dispatcher.urls))
	}
}

func (n *recordingNotifier) ReportError(text, detail string) { n.errors = append(n.errors, text+": "+detail) }

type harness struct {
	db         *discover.SeasonDatabase
	library    *memLibrary
	source     memSource
	dispatcher *recordingDispatcher
	notifier   *recordingNotifier
}

const remote = "https://seasons.example/data/"

func newHarness(t *testing.T) *harness {
	t.Helper()
	registry, err := service.NewRegistry("myanimelist")
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	h := &harness{
		library:    newMemLibrary(),
		source:     memSource{},
		dispatcher: &recordingDispatcher{},
		notifier:   &recordingNotifier{},
	}
	h.db, err = discover.New(discover.Options{
		Library:        h.library,
		Source:         h.source,
		Dispatcher:     h.dispatcher,
		Services:       registry,
		Notifier:       h.notifier,
		Logger:         logging.NewNop(),
		RemoteLocation: remote,
		HideNSFW:       true,
		Earliest:       anime.Season{Name: anime.SeasonWinter, Year: 2011},
		Latest:         anime.Season{Name: anime.SeasonSpring, Year: 2018},
	})
	if err != nil {
		t.Fatalf("discover.New failed: %v", err)
	}
	return h
}

var winter2018 = anime.Season{Name: anime.SeasonWinter, Year: 2018}

// seasonXML renders a season document. Each entry is "title|id,id" where ids
// are service=value pairs in document order.
func seasonXML(modified int64, entries ...string) string {
	return seasonXMLAt(strconv.FormatInt(modified, 10), entries...)
}

// seasonXMLAt is seasonXML with the modified value written verbatim.
func seasonXMLAt(modified string, entries ...string) string {
	var b strings.Builder
	b.WriteString("<season>\n\t<info>\n\t\t<name>Winter 2018</name>\n")
	fmt.Fprintf(&b, "\t\t<modified>%s</modified>\n\t</info>\n", modified)
	for _, entry := range entries {
		title, ids, _ := strings.Cut(entry, "|")
		b.WriteString("\t<anime>\n")
		for _, pair := range strings.Split(ids, ",") {
			name, value, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "\t\t<id name=%q>%s</id>\n", name, value)
		}
		fmt.Fprintf(&b, "\t\t<title>%s</title>\n\t\t<type>1</type>\n", title)
		fmt.Fprintf(&b, "\t\t<image>https://img.example/%s.jpg</image>\n", strings.ReplaceAll(title, " ", "_"))
		b.WriteString("\t\t<producers>Studio A, Studio B</producers>\n\t</anime>\n")
	}
	b.WriteString("</season>\n")
	return b.String()
}

func seedRecord(t *testing.T, lib *memLibrary, title string, modified int64, ids map[anime.ServiceID]string) anime.ID {
	t.Helper()
	id, err := lib.Insert(context.Background(), &anime.Item{
		Source:       service.MyAnimeList,
		Title:        title,
		LastModified: time.Unix(modified, 0).UTC(),
		IDs:          ids,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", title, err)
	}
	return id
}

func strPtr(s string) *string { return &s }
