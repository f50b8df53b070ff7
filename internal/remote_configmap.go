package internal

import (
	"context"
	"sync/atomic"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"go.eggybyte.com/flagx/core/errors"
	"go.eggybyte.com/flagx/core/log"
)

// ConfigMapRemoteOptions configures the Kubernetes ConfigMap provider.
type ConfigMapRemoteOptions struct {
	Namespace string               // ConfigMap namespace (default: "default")
	Client    kubernetes.Interface // Injected client; nil uses in-cluster config
	Logger    log.Logger
}

// ConfigMapRemoteProvider serves remote values from a Kubernetes ConfigMap.
// Each fetch reads the ConfigMap's data section and activates it atomically.
type ConfigMapRemoteProvider struct {
	name      string
	namespace string
	client    kubernetes.Interface
	logger    log.Logger
	active    atomic.Pointer[map[string]any]
}

// NewConfigMapRemoteProvider creates a provider reading the named ConfigMap.
func NewConfigMapRemoteProvider(name string, opts ConfigMapRemoteOptions) *ConfigMapRemoteProvider {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "default"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard
	}

	return &ConfigMapRemoteProvider{
		name:      name,
		namespace: namespace,
		client:    opts.Client,
		logger:    logger,
	}
}

// Initialize builds the Kubernetes client if none was injected and performs
// the first fetch-and-activate cycle.
func (p *ConfigMapRemoteProvider) Initialize(ctx context.Context) error {
	if p.client == nil {
		config, err := rest.InClusterConfig()
		if err != nil {
			return errors.Wrap(errors.CodeUnavailable, "remote.initialize", err)
		}
		client, err := kubernetes.NewForConfig(config)
		if err != nil {
			return errors.Wrap(errors.CodeUnavailable, "remote.initialize", err)
		}
		p.client = client
	}
	return p.fetch(ctx, "remote.initialize")
}

// Refresh re-reads the ConfigMap and activates its data.
func (p *ConfigMapRemoteProvider) Refresh(ctx context.Context) error {
	if p.client == nil {
		return errors.New(errors.CodeUnavailable, "provider is not initialized")
	}
	return p.fetch(ctx, "remote.refresh")
}

// GetAll returns the last activated raw value set.
func (p *ConfigMapRemoteProvider) GetAll() map[string]any {
	if active := p.active.Load(); active != nil {
		return *active
	}
	return map[string]any{}
}

func (p *ConfigMapRemoteProvider) fetch(ctx context.Context, op string) error {
	cm, err := p.client.CoreV1().ConfigMaps(p.namespace).Get(ctx, p.name, metav1.GetOptions{})
	if err != nil {
		return errors.Wrap(errors.CodeUnavailable, op, err)
	}

	values := make(map[string]any, len(cm.Data))
	for k, v := range cm.Data {
		values[k] = v
	}

	p.active.Store(&values)
	p.logger.Debug("configmap values activated",
		log.Str("name", p.name),
		log.Str("namespace", p.namespace),
		log.Int("keys", len(values)))
	return nil
}
