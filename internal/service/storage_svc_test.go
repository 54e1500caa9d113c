package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewStorageService_Local(t *testing.T) {
	tempDir := t.TempDir()

	svc, err := NewStorageService(&StorageConfig{
		Provider: "local",
		BasePath: tempDir,
	})

	if err != nil {
		t.Fatalf("NewStorageService() error = %v", err)
	}

	if svc == nil {
		t.Fatal("NewStorageService() 返回 nil")
	}

	if svc.GetProvider() == nil {
		t.Error("GetProvider() 返回 nil")
	}
}

func TestNewStorageService_InvalidProvider(t *testing.T) {
	_, err := NewStorageService(&StorageConfig{
		Provider: "invalid",
	})

	if err == nil {
		t.Error("期望返回错误，但未返回")
	}
}

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	tempDir := t.TempDir()

	svc, err := NewStorageService(&StorageConfig{
		Provider: "local",
		BasePath: tempDir,
		LocalURL: "http://localhost:8080/uploads",
	})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}

	ctx := context.Background()
	testData := []byte("fake-jpeg-bytes")

	url, err := svc.Upload(ctx, testData, "car_front.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if !strings.HasPrefix(url, "http://localhost:8080/uploads/") {
		t.Errorf("URL 前缀不正确: %s", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("应保留原始扩展名: %s", url)
	}

	// 文件确实落盘
	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(tempDir, name))
	if err != nil {
		t.Fatalf("读取落盘文件失败: %v", err)
	}
	if string(data) != string(testData) {
		t.Error("落盘内容与上传内容不一致")
	}

	// 删除后文件消失
	if err := svc.Delete(ctx, url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, name)); !os.IsNotExist(err) {
		t.Error("删除后文件仍然存在")
	}

	// 重复删除是幂等的
	if err := svc.Delete(ctx, url); err != nil {
		t.Errorf("重复删除应幂等，但返回: %v", err)
	}
}

func TestLocalStorage_MissingExtension(t *testing.T) {
	tempDir := t.TempDir()

	svc, err := NewStorageService(&StorageConfig{
		Provider: "local",
		BasePath: tempDir,
	})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}

	url, err := svc.Upload(context.Background(), []byte("data"), "noext", "")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("缺失扩展名时应补默认扩展名: %s", url)
	}
}

func TestS3Storage_Init(t *testing.T) {
	bucket := os.Getenv("AWS_BUCKET")
	if bucket == "" {
		t.Skip("跳过: 需要设置 AWS_BUCKET 环境变量")
	}

	svc, err := NewStorageService(&StorageConfig{
		Provider:  "s3",
		Bucket:    bucket,
		Region:    os.Getenv("AWS_REGION"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	})

	if err != nil {
		t.Fatalf("S3 初始化失败: %v", err)
	}

	if svc == nil {
		t.Fatal("NewStorageService() 返回 nil")
	}
}

func TestS3Storage_Upload(t *testing.T) {
	bucket := os.Getenv("AWS_BUCKET")
	if bucket == "" {
		t.Skip("跳过: 需要设置 AWS_BUCKET 环境变量")
	}

	svc, err := NewStorageService(&StorageConfig{
		Provider:  "s3",
		Bucket:    bucket,
		Region:    os.Getenv("AWS_REGION"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		BasePath:  "test",
	})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}

	ctx := context.Background()
	testData := []byte("S3 Upload Test - " + time.Now().Format(time.RFC3339))

	url, err := svc.Upload(ctx, testData, "test_upload.txt", "text/plain")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if url == "" {
		t.Error("Upload() 返回空 URL")
	}

	t.Logf("S3 上传成功: %s", url)

	// 清理: 删除测试文件
	if err := svc.Delete(ctx, url); err != nil {
		t.Logf("清理失败: %v", err)
	}
}
