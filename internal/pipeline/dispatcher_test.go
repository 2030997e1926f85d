package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"viralengine/internal/jobs"
	"viralengine/internal/services"
)

type gatedScript struct {
	out     ScriptOutput
	release chan struct{}
}

func (s *gatedScript) GenerateScript(ctx context.Context, topic string, duration int, style string) (ScriptOutput, error) {
	<-s.release
	return s.out, nil
}

func newTestDispatcher(exec Executors) (*Dispatcher, *jobs.Store) {
	store := jobs.NewStore()
	orch := NewOrchestrator(store, exec, nil, 0)
	return NewDispatcher(store, orch, nil), store
}

func TestDispatcherRejectsInvalidRequest(t *testing.T) {
	exec, script, _, _, _ := happyExecutors(1)
	dispatcher, store := newTestDispatcher(exec)

	_, err := dispatcher.Submit(context.Background(), jobs.Request{Topic: "   "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("Submit error = %v, want validation", err)
	}
	if store.Len() != 0 {
		t.Errorf("store holds %d jobs after rejected submit", store.Len())
	}
	dispatcher.Wait()
	if script.callCount() != 0 {
		t.Error("pipeline started for a rejected request")
	}
}

func TestDispatcherRunsPipelineToCompletion(t *testing.T) {
	exec, _, _, _, _ := happyExecutors(2)
	dispatcher, store := newTestDispatcher(exec)

	job, err := dispatcher.Submit(context.Background(), jobs.Request{Topic: "container gardening", VoiceID: "voice-1"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job.Status != jobs.StatusPending {
		t.Errorf("submitted status = %s, want %s", job.Status, jobs.StatusPending)
	}
	if job.CurrentStep != "Initializing project..." {
		t.Errorf("submitted step = %q", job.CurrentStep)
	}

	dispatcher.Wait()
	final, err := store.Get(job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if final.Status != jobs.StatusCompleted {
		t.Fatalf("status = %s, want %s", final.Status, jobs.StatusCompleted)
	}
	if final.Progress != 100 {
		t.Errorf("progress = %d, want 100", final.Progress)
	}
}

func TestDispatcherSubmitDoesNotBlock(t *testing.T) {
	script := &gatedScript{
		out:     ScriptOutput{Script: "narration", Scenes: testScenes(1)},
		release: make(chan struct{}),
	}
	exec := Executors{
		Script: script,
		Audio:  &stubAudio{segments: []string{"a.mp3"}},
		Visual: &stubVisual{},
		Merge:  &stubMerge{},
	}
	dispatcher, store := newTestDispatcher(exec)

	done := make(chan *jobs.Job, 1)
	go func() {
		job, err := dispatcher.Submit(context.Background(), jobs.Request{Topic: "paper airplanes", VoiceID: "voice-1"})
		if err != nil {
			t.Errorf("Submit: %v", err)
			done <- nil
			return
		}
		done <- job
	}()

	var job *jobs.Job
	select {
	case job = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on the running pipeline")
	}
	if job == nil {
		t.Fatal("no job returned")
	}

	snapshot, err := store.Get(job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if snapshot.Status.IsTerminal() {
		t.Fatalf("job already terminal before stage release: %s", snapshot.Status)
	}

	close(script.release)
	dispatcher.Wait()
	final, _ := store.Get(job.ID)
	if final.Status != jobs.StatusCompleted {
		t.Fatalf("status = %s, want %s", final.Status, jobs.StatusCompleted)
	}
}

func TestDispatcherIsolatesConcurrentJobs(t *testing.T) {
	failingTopic := "cursed topic"
	script := &topicScript{failTopic: failingTopic}
	exec := Executors{
		Script: script,
		Audio:  &stubAudio{segments: []string{"a.mp3"}},
		Visual: &concurrentVisual{},
		Merge:  &stubMerge{},
	}
	dispatcher, store := newTestDispatcher(exec)

	topics := []string{"tiny houses", failingTopic, "sourdough starters"}
	ids := make(map[string]string, len(topics))
	for _, topic := range topics {
		job, err := dispatcher.Submit(context.Background(), jobs.Request{Topic: topic, VoiceID: "voice-1"})
		if err != nil {
			t.Fatalf("Submit(%q): %v", topic, err)
		}
		ids[topic] = job.ID
	}
	dispatcher.Wait()

	for _, topic := range topics {
		job, err := store.Get(ids[topic])
		if err != nil {
			t.Fatalf("Get(%q): %v", topic, err)
		}
		if topic == failingTopic {
			if job.Status != jobs.StatusFailed {
				t.Errorf("%q status = %s, want %s", topic, job.Status, jobs.StatusFailed)
			}
			if !strings.HasPrefix(job.ErrorMessage, "script generation failed: ") {
				t.Errorf("%q error message = %q", topic, job.ErrorMessage)
			}
			continue
		}
		if job.Status != jobs.StatusCompleted {
			t.Errorf("%q status = %s, want %s", topic, job.Status, jobs.StatusCompleted)
		}
	}
}

func TestDispatcherSurvivesCallerCancellation(t *testing.T) {
	exec, _, _, _, _ := happyExecutors(1)
	dispatcher, store := newTestDispatcher(exec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job, err := dispatcher.Submit(ctx, jobs.Request{Topic: "abandoned subway stations", VoiceID: "voice-1"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	dispatcher.Wait()
	final, _ := store.Get(job.ID)
	if final.Status != jobs.StatusCompleted {
		t.Fatalf("status = %s, want %s; cancellation must not reach the pipeline", final.Status, jobs.StatusCompleted)
	}
}

type topicScript struct {
	failTopic string
}

func (s *topicScript) GenerateScript(ctx context.Context, topic string, duration int, style string) (ScriptOutput, error) {
	if topic == s.failTopic {
		return ScriptOutput{}, errors.New("refused topic")
	}
	return ScriptOutput{Script: "narration for " + topic, Scenes: testScenes(2)}, nil
}

type concurrentVisual struct {
	mu sync.Mutex
}

func (v *concurrentVisual) GenerateSceneClip(ctx context.Context, description, style, jobID string, sceneIndex int) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fmt.Sprintf("/tmp/%s/clip_%03d.mp4", jobID, sceneIndex), nil
}
