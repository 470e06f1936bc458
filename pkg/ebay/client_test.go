package ebay

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// ==================== 测试用调用 ====================

type pingRequest struct {
	XMLName              xml.Name             `xml:"urn:ebay:apis:eBLBaseComponents GeteBayOfficialTimeRequest"`
	RequesterCredentials RequesterCredentials `xml:"RequesterCredentials"`
}

type pingResponse struct {
	XMLName xml.Name `xml:"GeteBayOfficialTimeResponse"`
	BaseResponse
}

func testClient(endpoint string) *TradingClient {
	return NewTradingClient(Config{
		Endpoint:    endpoint,
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
	})
}

// ==================== 单元测试 ====================

func TestTradingClient_Call(t *testing.T) {
	var gotCallName, gotSiteID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCallName = r.Header.Get("X-EBAY-API-CALL-NAME")
		gotSiteID = r.Header.Get("X-EBAY-API-SITEID")
		w.Write([]byte(`<?xml version="1.0"?>
<GeteBayOfficialTimeResponse><Ack>Success</Ack><Timestamp>2026-09-01T12:00:00.000Z</Timestamp></GeteBayOfficialTimeResponse>`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	var resp pingResponse
	err := client.Call(context.Background(), "GeteBayOfficialTime", &pingRequest{}, &resp)
	if err != nil {
		t.Fatalf("调用失败: %v", err)
	}

	if gotCallName != "GeteBayOfficialTime" {
		t.Errorf("CALL-NAME = %s", gotCallName)
	}
	if gotSiteID != "0" {
		t.Errorf("SITEID = %s, want 0", gotSiteID)
	}
	if resp.GetAck() != AckSuccess {
		t.Errorf("ack = %s, want Success", resp.GetAck())
	}
	if resp.Timestamp == "" {
		t.Error("Timestamp 未解析")
	}
}

func TestTradingClient_RetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 前两次 500，第三次成功
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`<GeteBayOfficialTimeResponse><Ack>Success</Ack></GeteBayOfficialTimeResponse>`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	var resp pingResponse
	if err := client.Call(context.Background(), "GeteBayOfficialTime", &pingRequest{}, &resp); err != nil {
		t.Fatalf("重试后应成功: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("调用次数 = %d, want 3", calls)
	}
}

func TestTradingClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	var resp pingResponse
	err := client.Call(context.Background(), "GeteBayOfficialTime", &pingRequest{}, &resp)
	if err == nil {
		t.Fatal("耗尽重试后应报错")
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("调用次数 = %d, want 3", calls)
	}
}

func TestTradingClient_AckFailureIsNotRetried(t *testing.T) {
	// Ack=Failure 是业务结果，不算瞬时错误
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`<GeteBayOfficialTimeResponse><Ack>Failure</Ack><Errors><LongMessage>Invalid token.</LongMessage></Errors></GeteBayOfficialTimeResponse>`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	var resp pingResponse
	if err := client.Call(context.Background(), "GeteBayOfficialTime", &pingRequest{}, &resp); err != nil {
		t.Fatalf("Ack=Failure 不应作为 error 返回: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("调用次数 = %d, want 1", calls)
	}
	if resp.GetAck() != AckFailure {
		t.Errorf("ack = %s, want Failure", resp.GetAck())
	}
	if resp.ErrorMessage() != "Invalid token." {
		t.Errorf("错误原文应透传: %q", resp.ErrorMessage())
	}
}

func TestTradingClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewTradingClient(Config{
		Endpoint:    srv.URL,
		MaxAttempts: 5,
		Backoff:     time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var resp pingResponse
	err := client.Call(ctx, "GeteBayOfficialTime", &pingRequest{}, &resp)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
