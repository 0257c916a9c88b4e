package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/db/dbtest"
	"github.com/sujalbistaa/secretos/internal/models"
	"github.com/sujalbistaa/secretos/internal/repository"
)

type fakeStore struct {
	keys []string
	err  error
}

func (f *fakeStore) Upload(_ context.Context, key string, _ []byte, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://project.example.co/storage/v1/object/public/attachments/" + key
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFlexID_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want FlexID
	}{
		{`{"schoolId": 5}`, "5"},
		{`{"schoolId": "5"}`, "5"},
		{`{"schoolId": 0}`, ""},
		{`{"schoolId": null}`, ""},
		{`{"schoolId": "abc"}`, "abc"},
	}
	for _, tc := range cases {
		var in CreatePostInput
		require.NoError(t, json.Unmarshal([]byte(tc.in), &in), tc.in)
		require.Equal(t, tc.want, in.SchoolID, tc.in)
	}

	var in CreatePostInput
	require.Error(t, json.Unmarshal([]byte(`{"schoolId": true}`), &in))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	require.Equal(t, uint(42), id)

	for _, raw := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseID(raw)
		require.Error(t, err, raw)
	}
}

func TestPostService_Create(t *testing.T) {
	gdb := dbtest.New(t)
	dbtest.SeedSchools(t, gdb, models.School{ID: 5, Name: "ESCUELA 5", Department: "CONCORDIA", Locality: "CONCORDIA"})
	secrets := repository.NewSecretRepository(gdb)
	svc := NewPostService(repository.NewSchoolRepository(gdb), secrets)
	ctx := context.Background()

	secret, err := svc.Create(ctx, CreatePostInput{Content: "I ate the last empanada", SchoolID: "5", Title: "Confession"})
	require.NoError(t, err)
	require.NotZero(t, secret.ID)
	require.True(t, secret.Approved)
	require.Equal(t, uint(5), secret.SchoolID)
	require.Equal(t, "Confession", secret.Title)
}

func TestPostService_CreateRejectsInvalidInput(t *testing.T) {
	gdb := dbtest.New(t)
	dbtest.SeedSchools(t, gdb, models.School{ID: 5, Name: "ESCUELA 5", Department: "CONCORDIA", Locality: "CONCORDIA"})
	secrets := repository.NewSecretRepository(gdb)
	svc := NewPostService(repository.NewSchoolRepository(gdb), secrets)
	ctx := context.Background()

	cases := []struct {
		name   string
		in     CreatePostInput
		status int
		msg    string
	}{
		{"missing title", CreatePostInput{Content: "hi", SchoolID: "5"}, http.StatusBadRequest, "All fields are required"},
		{"missing content", CreatePostInput{SchoolID: "5", Title: "t"}, http.StatusBadRequest, "All fields are required"},
		{"missing school", CreatePostInput{Content: "hi", Title: "t"}, http.StatusBadRequest, "All fields are required"},
		{"non numeric school", CreatePostInput{Content: "hi", SchoolID: "abc", Title: "t"}, http.StatusBadRequest, "Invalid school ID"},
		{"unknown school", CreatePostInput{Content: "hi", SchoolID: "999", Title: "t"}, http.StatusNotFound, "School not found"},
		{"fractional school", CreatePostInput{Content: "hi", SchoolID: "5.5", Title: "t"}, http.StatusNotFound, "School not found"},
		{"blank school", CreatePostInput{Content: "hi", SchoolID: " ", Title: "t"}, http.StatusNotFound, "School not found"},
		{"blank content", CreatePostInput{Content: "  ", SchoolID: "5", Title: "t"}, http.StatusBadRequest, "All fields are required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			require.Error(t, err)
			require.Equal(t, tc.status, apperr.Status(err))
			require.Equal(t, tc.msg, apperr.Message(err))
		})
	}

	all, err := secrets.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestImageService_UploadAndList(t *testing.T) {
	gdb := dbtest.New(t)
	store := &fakeStore{}
	svc := NewImageService(repository.NewImageRepository(gdb), store)
	ctx := context.Background()

	img, err := svc.Upload(ctx, 42, pngBytes(t, 40, 30), "image/png")
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	require.Regexp(t, `^public/\d+_42\.png$`, store.keys[0])
	require.Equal(t, store.PublicURL(store.keys[0]), img.URLs.Data().PublicURL)

	urls, err := svc.URLs(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, []string{img.URLs.Data().PublicURL}, urls)

	urls, err = svc.URLs(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestImageService_UploadRejectsNonImage(t *testing.T) {
	gdb := dbtest.New(t)
	store := &fakeStore{}
	svc := NewImageService(repository.NewImageRepository(gdb), store)

	_, err := svc.Upload(context.Background(), 1, []byte("%PDF-1.4"), "application/pdf")
	require.ErrorIs(t, err, apperr.ErrBadRequest)
	require.Equal(t, "Invalid file type. Only images are allowed.", apperr.Message(err))
	require.Empty(t, store.keys)
}

func TestImageService_OversizedDimensionsAreBadRequest(t *testing.T) {
	gdb := dbtest.New(t)
	store := &fakeStore{}
	svc := NewImageService(repository.NewImageRepository(gdb), store)

	// a 1×1 PNG whose header claims 30000×30000
	data := pngBytes(t, 1, 1)
	binary.BigEndian.PutUint32(data[16:20], 30000)
	binary.BigEndian.PutUint32(data[20:24], 30000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	_, err := svc.Upload(context.Background(), 1, data, "image/png")
	require.Equal(t, http.StatusBadRequest, apperr.Status(err))
	require.Equal(t, "Image dimensions are too large", apperr.Message(err))
	require.Empty(t, store.keys)
}

func TestImageService_StorageFailureWritesNothing(t *testing.T) {
	gdb := dbtest.New(t)
	store := &fakeStore{err: errors.New("bucket unavailable")}
	images := repository.NewImageRepository(gdb)
	svc := NewImageService(images, store)
	ctx := context.Background()

	_, err := svc.Upload(ctx, 3, pngBytes(t, 10, 10), "image/png")
	require.Error(t, err)
	require.Equal(t, http.StatusInternalServerError, apperr.Status(err))

	rows, err := images.ListBySecret(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, rows)
}
