package model_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/yolograph/yolograph/ml"
	"github.com/yolograph/yolograph/model"
	_ "github.com/yolograph/yolograph/model/models"
)

const config = `[net]
width=8
height=8

[convolutional]
filters=18
size=1
stride=1
activation=linear

[yolo]
mask=0,1,2
anchors=10,13,16,30,33,23
classes=1
`

func TestArchitectures(t *testing.T) {
	if diff := cmp.Diff([]string{"yolov3"}, model.Architectures()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yolov3.cfg")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))

	m, err := model.Load("yolov3", path, model.WithBackend("cpu", ml.BackendParams{NumThreads: 1}))
	require.NoError(t, err)
	defer m.Close()

	if diff := cmp.Diff([]int{1, 8, 8, 3}, m.InputShape()); diff != "" {
		t.Errorf("Input (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 192, 6}, m.OutputShape()); diff != "" {
		t.Errorf("Output (-want +got):\n%s", diff)
	}

	_, err = model.Load("yolov9", path)
	if !errors.Is(err, model.ErrUnsupportedModel) {
		t.Errorf("Fehler %v erwartet, bekommen %v", model.ErrUnsupportedModel, err)
	}

	_, err = model.Load("yolov3", filepath.Join(t.TempDir(), "missing.cfg"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Fehler %v erwartet, bekommen %v", os.ErrNotExist, err)
	}
}

func TestNewOptions(t *testing.T) {
	t.Setenv("YOLOGRAPH_BATCH_SIZE", "4")
	t.Setenv("YOLOGRAPH_NUM_CLASSES", "")
	t.Setenv("YOLOGRAPH_BACKEND", "")
	t.Setenv("YOLOGRAPH_NUM_THREAD", "3")

	o := model.NewOptions(model.WithNumClasses(80), model.WithInputShape(416, 416, 3))
	want := model.Options{
		Height: 416, Width: 416, Channels: 3,
		NumClasses:    80,
		BatchSize:     4,
		Backend:       "cpu",
		BackendParams: ml.BackendParams{NumThreads: 3},
	}

	if diff := cmp.Diff(want, o); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if got := model.NewOptions(model.WithBatchSize(-1)).BatchSize; got != 1 {
		t.Errorf("BatchSize = %d, erwartet 1", got)
	}
}
